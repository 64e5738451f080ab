package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config structs

type Config struct {
	IsDebug bool `yaml:"is_debug" split_words:"true"`

	DataDir   string `yaml:"data_dir" split_words:"true"`
	CoinsFile string `yaml:"coins_file" split_words:"true"`

	MySQL   MySQL   `yaml:"mysql"`
	Redis   Redis   `yaml:"redis"`
	Etcd    Etcd    `yaml:"etcd"`
	Nats    Nats    `yaml:"nats"`
	Grpc    Grpc    `yaml:"grpc"`
	Metrics Metrics `yaml:"metrics"`

	Env Env `yaml:"env"`
}

type MySQL struct {
	Main MySQLServer `yaml:"main"`
}

type MySQLServer struct {
	Enabled      bool   `yaml:"enabled" split_words:"true"`
	Host         string `yaml:"host" split_words:"true"`
	Port         int    `yaml:"port" split_words:"true"`
	User         string `yaml:"user" split_words:"true"`
	Pass         string `yaml:"pass" split_words:"true"`
	DB           string `yaml:"db" split_words:"true"`
	MaxOpenConns int    `yaml:"max_open_conns" split_words:"true"`
}

type Redis struct {
	Main RedisServer `yaml:"main"`
}

type RedisServer struct {
	Enabled bool   `yaml:"enabled" split_words:"true"`
	Addr    string `yaml:"addr" split_words:"true"`
	DB      int    `yaml:"db" split_words:"true"`
	Pass    string `yaml:"pass" split_words:"true"`
	Timeout int    `yaml:"timeout" split_words:"true"`
}

type Etcd struct {
	Main EtcdServer `yaml:"main"`
}

type EtcdServer struct {
	Enabled bool   `yaml:"enabled" split_words:"true"`
	Url     string `yaml:"url" split_words:"true"`
}

// Nats is used when etcd is disabled or has no nats_coins entry
type Nats struct {
	Enabled bool   `yaml:"enabled" split_words:"true"`
	Url     string `yaml:"url" split_words:"true"`
}

type Grpc struct {
	Addr string `yaml:"addr" split_words:"true"`
}

type Metrics struct {
	Addr string `yaml:"addr" split_words:"true"`
}

type Env struct {
	XlogMode  string `yaml:"xlog_mode" split_words:"true"`
	XlogColor bool   `yaml:"xlog_color" split_words:"true"`
}

// Global variables

const DEVDATA = "/usr/local/coinsreg/devdata"

// EnvPrefix prefixes every environment override, e.g. COINSREG_NATS_URL, COINSREG_MYSQL_MAIN_HOST
const EnvPrefix = "coinsreg"

var Shared *Config // single instance of the config

var (
	fConfig string // config file path
)

func init() {
	flag.StringVar(&fConfig, "config", "", "specify the config file")
}

// Default returns the values used for anything the config file leaves empty
func Default() *Config {
	return &Config{
		DataDir:   DEVDATA,
		CoinsFile: "coins.json",
		Nats:      Nats{Url: "nats://127.0.0.1:4222"},
		Grpc:      Grpc{Addr: ":12350"},
		Metrics:   Metrics{Addr: ":12351"},
	}
}

// Load decodes the given config file on top of Default and applies environment overrides
func Load(configFile string) (cfg *Config, err error) {
	cfg = Default()

	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	err = yaml.NewDecoder(file).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", configFile, err)
	}

	err = envconfig.Process(EnvPrefix, cfg)
	if err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	return cfg, nil
}

// Init initializes the Shared config with the given config file path
func Init(configFile string) {
	cfg, err := Load(configFile)
	if err != nil {
		panic(err)
	}
	Shared = cfg
}

// EasyInit initializes the Shared config with the -config flag or the default paths
func EasyInit() {
	fpath := fConfig
	if fpath == "" {
		fpath = "config/config.yml"
	}

	// if the config file does not exist, use the DEVDATA one
	if _, err := os.Stat(fpath); os.IsNotExist(err) {
		fpath = DEVDATA + "/config.yml"
		printf(fmt.Sprintf("use config: %s (DEVDATA)", fpath))
	} else {
		printf(fmt.Sprintf("use config: %s", fpath))
	}

	Init(fpath)
}

// CoinsPath resolves CoinsFile relative to DataDir
func (c *Config) CoinsPath() string {
	if c.CoinsFile == "" || c.CoinsFile[0] == '/' {
		return c.CoinsFile
	}
	return c.DataDir + "/" + c.CoinsFile
}

// Print the given string to the standard output
func printf(s string) {
	fmt.Printf("%s %s\n", time.Now().Format("2006/01/02 15:04:05"), s)
}
