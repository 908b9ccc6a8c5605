package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
	// "RW", or "RO" for read replicas.
	Mode string
}

type RedisCache struct {
	Host     string
	Port     string
	Password string
	// Key prefix for every room store key and channel.
	Key string
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Mongo struct {
	URI      string
	Database string
}

type LLM struct {
	// OpenAI-compatible API root, the client appends /chat/completions.
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
	// Zero disables the completion cache.
	CacheTTL time.Duration
}

type S3 struct {
	Bucket string
	Prefix string
	Region string
	// "real", or "mock" for an S3-compatible server at Endpoint.
	ClientType string
	Endpoint   string
	AccessKey  string
	SecretKey  string
}

// Enabled reports whether notes go to a bucket. Without credentials they
// are kept in process memory.
func (s S3) Enabled() bool {
	return s.AccessKey != "" || s.ClientType == "mock"
}

type Rooms struct {
	// "redis" or "memory".
	Store         string
	MaxAge        time.Duration
	CleanupPeriod int
}

type Config struct {
	HTTP     HTTPServer
	Redis    RedisCache
	Postgres Postgres
	Mongo    Mongo
	LLM      LLM
	S3       S3
	Rooms    Rooms
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := &Config{
		HTTP:     *newHTTP(),
		Redis:    *newRedis(),
		Postgres: *newPostgres(),
		Mongo:    *newMongo(),
		LLM:      *newLLM(),
		S3:       *newS3(),
		Rooms:    *newRooms(),
	}

	log.Printf("%s backend config : %+v\n", logtag, cfg.redacted())
	return cfg
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
		Mode: getenv("HTTP_MODE", "RW"),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     getenv("REDIS_HOST", "redis"),
		Password: getenv("REDIS_PASSWORD", "shared"),
		Key:      getenv("REDIS_ROOM_KEY", "arena"),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getenv("DB_PASSWORD", "shared"),
		DBName:   getenv("DB_NAME", "companion"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newMongo() *Mongo {
	return &Mongo{
		URI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getenv("MONGO_DB", "companion"),
	}
}

func newLLM() *LLM {
	return &LLM{
		BaseURL:  getenv("LLM_BASE_URL", "https://api.openai.com/v1"),
		APIKey:   os.Getenv("LLM_API_KEY"),
		Model:    getenv("LLM_MODEL", "gpt-4o-mini"),
		Timeout:  getduration("LLM_TIMEOUT", 30*time.Second),
		CacheTTL: getduration("LLM_CACHE_TTL", 10*time.Minute),
	}
}

func newS3() *S3 {
	return &S3{
		Bucket:     getenv("S3_BUCKET", "companion-notes"),
		Prefix:     getenv("S3_PREFIX", "notes"),
		Region:     getenv("AWS_REGION", "us-east-1"),
		ClientType: getenv("S3_CLIENT_TYPE", "real"),
		Endpoint:   getenv("MOCK_S3_ENDPOINT", "http://mock-s3-server:9090"),
		AccessKey:  os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey:  os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
}

func newRooms() *Rooms {
	return &Rooms{
		Store:         getenv("ROOM_STORE", "redis"),
		MaxAge:        getduration("ROOM_MAX_AGE", 24*time.Hour),
		CleanupPeriod: getint("ROOM_CLEANUP_PERIOD", 20),
	}
}

func (c Config) redacted() Config {
	if c.LLM.APIKey != "" {
		c.LLM.APIKey = "***"
	}
	if c.S3.SecretKey != "" {
		c.S3.SecretKey = "***"
	}
	return c
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

func getint(key string, defaultValue int) int {
	val, err := strconv.Atoi(getenv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		log.Fatalf("%s %s is not an integer: %v", logtag, key, err)
	}
	return val
}

func getduration(key string, defaultValue time.Duration) time.Duration {
	val, err := time.ParseDuration(getenv(key, defaultValue.String()))
	if err != nil {
		log.Fatalf("%s %s is not a duration: %v", logtag, key, err)
	}
	return val
}
