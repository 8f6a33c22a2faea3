package conf

type Bootstrap struct {
	Server    *Server
	Data      *Data
	Auth      *Auth
	Narrative *Narrative
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Data struct {
	Database *Database
}

type Database struct {
	Driver string
	Source string
}

type Auth struct {
	JwtKey string
}

// Narrative 내러티브 생성용 챗 컴플리션 설정.
// ApiKey가 비어 있으면 호출 시점에 MISSING_CREDENTIAL로 실패한다.
type Narrative struct {
	BaseUrl     string
	ApiKey      string
	Model       string
	Temperature float64
	MaxTokens   int32
	Rpm         int32
	Qps         int32
}
