package logging

import (
	"go.uber.org/zap"
)

// Logger is replaced by InitLogger at startup. Until then it discards
// everything, which keeps tests quiet.
var Logger = zap.NewNop().Sugar()

func InitLogger(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Logger = logger.Sugar()
}

func Sync() {
	_ = Logger.Sync()
}
