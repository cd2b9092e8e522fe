// Package autoload initializes the global logger from LOG_* environment
// variables as a side effect of being imported.
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/pattarapol/CareerMate-Advisor/pkg/logger"
)

func init() {
	var conf logx.Config
	// Missing or malformed LOG_* vars fall back to the zero config; logging
	// must never block startup.
	_ = envconfig.Process("LOG", &conf)
	logx.Init(conf)
}
