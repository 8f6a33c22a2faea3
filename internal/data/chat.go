package data

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/time/rate"

	"github.com/d0gyunkim/seveneleven-website-sub000/internal/biz"
	"github.com/d0gyunkim/seveneleven-website-sub000/internal/conf"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 300
)

// chatClient wraps one OpenAI-compatible chat-completion endpoint. The model
// handle is initialized lazily before the first call and is read-only
// afterwards, so concurrent invocations share it safely.
type chatClient struct {
	cfg     *conf.Narrative
	limiter *rate.Limiter
	log     *log.Helper

	once    sync.Once
	model   model.BaseChatModel
	initErr error
}

func NewChatClient(c *conf.Narrative, logger log.Logger) biz.ChatClient {
	rpm := int32(60)
	qps := int32(1)
	if c != nil {
		if c.Rpm > 0 {
			rpm = c.Rpm
		}
		if c.Qps > 0 {
			qps = c.Qps
		}
	}
	return &chatClient{
		cfg:     c,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), int(qps)),
		log:     log.NewHelper(logger),
	}
}

func (c *chatClient) init(ctx context.Context) error {
	c.once.Do(func() {
		if c.model != nil {
			return
		}
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: c.cfg.BaseUrl,
			APIKey:  c.cfg.ApiKey,
			Model:   c.cfg.Model,
		})
		if err != nil {
			c.initErr = fmt.Errorf("chat model init: %w", err)
			return
		}
		c.model = cm
	})
	return c.initErr
}

// Generate issues exactly one completion call. The credential is checked
// before any network I/O; when it is absent no outbound call is attempted.
func (c *chatClient) Generate(ctx context.Context, system, user string) (string, error) {
	if c.cfg == nil || c.cfg.ApiKey == "" {
		return "", errors.InternalServer("MISSING_CREDENTIAL", "narrative api key is not configured")
	}
	if err := c.init(ctx); err != nil {
		return "", errors.InternalServer("UPSTREAM_ERROR", err.Error())
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	temperature := c.cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	maxTokens := int(c.cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	}
	resp, err := c.model.Generate(ctx, messages,
		model.WithTemperature(float32(temperature)),
		model.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", upstreamError(err)
	}
	return resp.Content, nil
}

var statusCodeRe = regexp.MustCompile(`status(?: code)?[:=]? (\d{3})`)

// upstreamError forwards the provider's HTTP status when it can be read from
// the error text, 502 otherwise. The diagnostic body rides along in the
// message.
func upstreamError(err error) error {
	code := 502
	if m := statusCodeRe.FindStringSubmatch(err.Error()); m != nil {
		if n, convErr := strconv.Atoi(m[1]); convErr == nil && n >= 400 && n < 600 {
			code = n
		}
	}
	return errors.New(code, "UPSTREAM_ERROR", err.Error())
}
