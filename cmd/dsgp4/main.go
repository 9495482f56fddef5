package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	dsgp4 "github.com/Sceki/dSGP4"
	"github.com/gonum/matrix/mat64"
	"github.com/spf13/viper"
)

// This code only reads the scenario file, propagates every satellite it
// defines at the requested offsets, and prints the states (and Jacobians if
// asked for).

const defaultScenario = "~~unset~~"

var (
	scenario  string
	gradients bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "scenario TOML file")
	flag.BoolVar(&gradients, "grad", false, "also print the 6x9 Jacobian of each state")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	var sets []*dsgp4.Elements
	for satNo := 0; viper.IsSet(fmt.Sprintf("satellites.%d", satNo)); satNo++ {
		pre := fmt.Sprintf("satellites.%d.", satNo)
		epoch := viper.GetTime(pre + "epoch")
		el, err := dsgp4.NewElementsTLE(
			viper.GetFloat64(pre+"meanMotion"),
			viper.GetFloat64(pre+"ecc"),
			viper.GetFloat64(pre+"inc"),
			viper.GetFloat64(pre+"RAAN"),
			viper.GetFloat64(pre+"argPeri"),
			viper.GetFloat64(pre+"mAnomaly"),
			viper.GetFloat64(pre+"bstar"),
			viper.GetFloat64(pre+"nDot"),
			viper.GetFloat64(pre+"nDDot"),
			epoch,
		)
		if err != nil {
			log.Fatalf("satellites.%d: %s", satNo, err)
		}
		if err = el.Initialize(); err != nil {
			log.Fatalf("satellites.%d: %s", satNo, err)
		}
		log.Printf("[%d] %s regime=%s", satNo, el, el.Regime())
		sets = append(sets, el)
	}
	if len(sets) == 0 {
		log.Fatal("scenario defines no satellites")
	}

	times := []float64{0}
	if viper.IsSet("propagation.minutes") {
		times = nil
		for _, m := range viper.GetStringSlice("propagation.minutes") {
			var t float64
			if _, err := fmt.Sscanf(m, "%f", &t); err != nil {
				log.Fatalf("propagation.minutes: %s", err)
			}
			times = append(times, t)
		}
	}

	grid, err := dsgp4.PropagateGrid(context.Background(), sets, times, gradients)
	if err != nil {
		log.Fatal(err)
	}
	for r, row := range grid {
		for c, res := range row {
			if res.Err != nil {
				log.Printf("[%d] t=%+.1f min: %s", r, times[c], res.Err)
				continue
			}
			fmt.Printf("[%d] t=%+.1f min: %s\n", r, times[c], res.State)
			if gradients {
				fmt.Printf("%v\n", mat64.Formatted(res.Jacobian.Matrix(), mat64.Prefix("")))
			}
		}
	}
}
