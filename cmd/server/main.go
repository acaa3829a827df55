// Command server exposes a gviz query endpoint over HTTP, dispatching to
// whichever DataProvider a request names and finishing the query with
// the in-process engine.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lychee-technology/gviz"
	"github.com/lychee-technology/gviz/factory"
)

// buildLogger constructs a zap.Logger from cfg.Logging, routing output
// through a rotating lumberjack.Logger sink when LogRotation is set
// instead of the default stdout/stderr WriteSyncer.
func buildLogger(cfg gviz.LoggingConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}

	var encoder zapcore.Encoder
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	var sink zapcore.WriteSyncer
	if lr := cfg.LogRotation; lr != nil {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   lr.Filename,
			MaxSize:    lr.MaxSizeMB,
			MaxBackups: lr.MaxBackups,
			MaxAge:     lr.MaxAgeDays,
			Compress:   lr.Compress,
		})
	} else {
		sink = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core, zap.AddCaller()), nil
}

// Server holds the registered providers and routes.
type Server struct {
	providers map[string]gviz.DataProvider
	schemas   map[string][]byte
	cfg       *gviz.Config
	log       *zap.Logger
	mux       *http.ServeMux
}

// NewServer builds a Server with no providers registered yet.
func NewServer(cfg *gviz.Config, log *zap.Logger) *Server {
	return &Server{
		providers: make(map[string]gviz.DataProvider),
		schemas:   make(map[string][]byte),
		cfg:       cfg,
		log:       log,
		mux:       http.NewServeMux(),
	}
}

// RegisterProvider makes a DataProvider reachable as /gviz/{name}.
func (s *Server) RegisterProvider(name string, p gviz.DataProvider) {
	s.providers[name] = p
}

// RegisterSchema pins a JSON Schema document that name's declared
// columns must validate against on every request.
func (s *Server) RegisterSchema(name string, schemaJSON []byte) {
	s.schemas[name] = schemaJSON
}

// RegisterRoutes wires the HTTP handlers onto the server's mux.
func (s *Server) RegisterRoutes() {
	s.mux.HandleFunc("/gviz/", s.handleQuery)
}

// Start begins serving on addr.
func (s *Server) Start(addr string) error {
	s.log.Info("starting gviz server", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.mux)
}

func main() {
	bootstrap, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	cfg := gviz.LoadConfigEnv(gviz.DefaultConfig())
	if path := os.Getenv("GVIZ_CONFIG_FILE"); path != "" {
		fileCfg, err := gviz.LoadConfigFile(path)
		if err != nil {
			bootstrap.Fatal("loading config file", zap.Error(err))
		}
		cfg = fileCfg
	}
	if err := cfg.Validate(); err != nil {
		bootstrap.Fatal("invalid config", zap.Error(err))
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		bootstrap.Fatal("building logger", zap.Error(err))
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()
	srv := NewServer(cfg, logger)
	for _, pc := range cfg.Providers {
		switch pc.Kind {
		case "csv":
			srv.RegisterProvider(pc.Name, factory.NewCSVProvider(pc.Path))
		case "postgres":
			pool, err := pgxpool.New(ctx, pc.DSN)
			if err != nil {
				logger.Fatal("connecting postgres provider", zap.String("name", pc.Name), zap.Error(err))
			}
			srv.RegisterProvider(pc.Name, factory.NewPostgresProvider(pool, pc.Table, logger))
		case "duckdb":
			provider, err := factory.NewDuckDBProvider(pc.DSN, pc.Table, logger)
			if err != nil {
				logger.Fatal("opening duckdb provider", zap.String("name", pc.Name), zap.Error(err))
			}
			srv.RegisterProvider(pc.Name, provider)
		case "s3":
			provider, err := factory.NewS3Provider(ctx, pc.Bucket, pc.Key, pc.CacheDir, logger)
			if err != nil {
				logger.Fatal("opening s3 provider", zap.String("name", pc.Name), zap.Error(err))
			}
			srv.RegisterProvider(pc.Name, provider)
		default:
			logger.Warn("unsupported provider kind in config, skipping", zap.String("name", pc.Name), zap.String("kind", pc.Kind))
			continue
		}
		if pc.SchemaPath != "" {
			schemaJSON, err := os.ReadFile(pc.SchemaPath)
			if err != nil {
				logger.Fatal("reading provider schema file", zap.String("name", pc.Name), zap.Error(err))
			}
			srv.RegisterSchema(pc.Name, schemaJSON)
		}
	}
	srv.RegisterRoutes()
	if err := srv.Start(cfg.Server.Addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
