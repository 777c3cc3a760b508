package transfergo

type Config struct {
	Server struct {
		Addr              string `yaml:"addr"`
		NotificationQueue int    `yaml:"notification_queue"`
	} `yaml:"server"`
	Limits LimitsConfig  `yaml:"limits"`
	Seed   []SeedAccount `yaml:"seed"`
}

type LimitsConfig struct {
	CreateAccount int64 `yaml:"create_account"`
	Account       int64 `yaml:"account"`
	Balance       int64 `yaml:"balance"`
	Deposit       int64 `yaml:"deposit"`
	Withdraw      int64 `yaml:"withdraw"`
	Transfer      int64 `yaml:"transfer"`
}

// SeedAccount is consumed by cmd/seeder to create accounts on a running
// server.
type SeedAccount struct {
	AcctID  string `yaml:"account_id"`
	Balance string `yaml:"balance"`
}
