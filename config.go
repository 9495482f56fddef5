package dsgp4

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/viper"
)

var (
	cfgOnce sync.Once
	config  _dsgp4config
)

// _dsgp4config is a "hidden" struct, just use `dsgp4Config`.
type _dsgp4config struct {
	keplerTol     float64
	keplerMaxIter int
	newtonTol     float64
	newtonMaxIter int
	batchWorkers  int
}

// dsgp4Config returns the propagation settings, loading them exactly once.
// Defaults apply when the DSGP4_CONFIG environment variable is unset;
// otherwise conf.toml in that directory is read.
func dsgp4Config() _dsgp4config {
	cfgOnce.Do(loadConfig)
	return config
}

func loadConfig() {
	viper.SetDefault("kepler.tolerance", 1e-12)
	viper.SetDefault("kepler.max_iterations", 10)
	viper.SetDefault("newton.tolerance", 1e-12)
	viper.SetDefault("newton.max_iterations", 50)
	viper.SetDefault("batch.workers", runtime.NumCPU())

	if confPath := os.Getenv("DSGP4_CONFIG"); confPath != "" {
		viper.SetConfigName("conf")
		viper.AddConfigPath(confPath)
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("%s/conf.toml: %s", confPath, err))
		}
	}

	config = _dsgp4config{
		keplerTol:     viper.GetFloat64("kepler.tolerance"),
		keplerMaxIter: viper.GetInt("kepler.max_iterations"),
		newtonTol:     viper.GetFloat64("newton.tolerance"),
		newtonMaxIter: viper.GetInt("newton.max_iterations"),
		batchWorkers:  viper.GetInt("batch.workers"),
	}
	if config.batchWorkers < 1 {
		config.batchWorkers = 1
	}
}
