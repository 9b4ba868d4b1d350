package conf

type Bootstrap struct {
	Server *Server
	Studio *Studio
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Studio struct {
	Llm         *LLM         `json:"llm"`
	Embedding   *Embedding   `json:"embedding"`
	Image       *Image       `json:"image"`
	Storage     *Storage     `json:"storage"`
	JobStore    *JobStore    `json:"job_store"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Db          *DB          `json:"db"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Embedding struct {
	BaseUrl   string `json:"base_url"`
	ApiKey    string `json:"api_key"`
	Model     string `json:"model"`
	Dimension int32  `json:"dimension"`
}

type Image struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
	Quality string `json:"quality"`
	Persist bool   `json:"persist"`
}

type Storage struct {
	PublicBaseUrl string `json:"public_base_url"`
}

type JobStore struct {
	Backend       string `json:"backend"`
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type DB struct {
	Host     string `json:"host"`
	Port     int32  `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
