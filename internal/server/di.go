package server

import (
	"github.com/google/wire"

	"github.com/d0gyunkim/seveneleven-website-sub000/internal/biz"
	"github.com/d0gyunkim/seveneleven-website-sub000/internal/data"
	"github.com/d0gyunkim/seveneleven-website-sub000/internal/service"
)

// ProviderSet 서비스 전체의 의존성 주입 Provider 집합
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Data providers
	data.NewData,
	data.NewStoreRepo,
	data.NewProductRepo,
	data.NewChatClient,

	// UseCase providers
	biz.NewStoreUseCase,
	biz.NewProductUseCase,
	biz.NewSimilarityUseCase,
	biz.NewNarrativeUseCase,

	// Service providers
	service.NewInsightService,
)
