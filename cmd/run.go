/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"encoding/csv"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/heatsim/hotbox/InputParameters"
	"github.com/heatsim/hotbox/simulation"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a heat diffusion simulation from a YAML parameter file",
	Long: `
Runs the box heat model described by a YAML parameter file and writes the
volume-mean temperature history as CSV.

hotbox run -I input.yaml -o means.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			m   = &RunModel{}
		)
		if m.ParamFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			panic(err)
		}
		m.OutputFile, _ = cmd.Flags().GetString("output")
		m.Parallel, _ = cmd.Flags().GetInt("parallel")
		m.Profile, _ = cmd.Flags().GetBool("profile")
		ip := processRunInput(m)
		RunSimulation(m, ip)
	},
}

type RunModel struct {
	ParamFile  string
	OutputFile string
	Parallel   int
	Profile    bool
}

func processRunInput(m *RunModel) (ip *InputParameters.SimParameters) {
	if len(m.ParamFile) == 0 {
		fmt.Printf("error: must supply a parameter file (-I, --inputParametersFile) in YAML format\n")
		exampleFile := `
########################################
Title: "Toy Hot Box"
Length: 3
Width: 2
Height: 1.5
NodeSpace: 0.05
Material:
  Diffusivity: 22.39e-6
  HeatTransfer: 1
  Conductivity: 50
  SpecificHeat: 1000
  Density: 3000
  Thickness: 0.002
BoundaryModel: flux # Can be "blend"
AirMean: 27
GroundTemp: 27
SolarIntensity: 1000
Latitude: 35.6
DaysSinceSolstice: 172
Integrator: explicit # Can be "adaptive"
Dt: 15
Horizon: 86400
InitialTemp: 27
SnapshotStride: 60
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	data, err := ioutil.ReadFile(m.ParamFile)
	if err != nil {
		panic(err)
	}
	ip = &InputParameters.SimParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func RunSimulation(m *RunModel, ip *InputParameters.SimParameters) {
	if m.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	ip.Print()
	cfg := ip.Config()
	if m.Parallel > 0 {
		cfg.Parallel = m.Parallel
	}
	sim, err := simulation.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("configuration rejected")
	}
	res, err := sim.Run()
	if err != nil {
		logrus.WithError(err).Fatal("run failed")
	}
	final := res.Final()
	fmt.Printf("%8.1f\t\t= Final Time [s]\n", res.FinalTime)
	fmt.Printf("%8.3f\t\t= Final Mean Temp [C]\n", final.Mean())
	fmt.Printf("%8.3f\t\t= Final Max Temp [C]\n", final.Max())
	if len(m.OutputFile) != 0 {
		if err = writeMeansCSV(m.OutputFile, res); err != nil {
			logrus.WithError(err).Fatal("output write failed")
		}
		fmt.Printf("wrote %d samples to %s\n", len(res.Snapshots), m.OutputFile)
	}
}

// writeMeansCSV writes (time, volume mean) rows for external plotting.
func writeMeansCSV(path string, res *simulation.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err = w.Write([]string{"time_s", "mean_c"}); err != nil {
		return err
	}
	times, means := res.VolumeMeans()
	for i := range times {
		row := []string{
			strconv.FormatFloat(times[i], 'g', -1, 64),
			strconv.FormatFloat(means[i], 'g', -1, 64),
		}
		if err = w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for simulation parameters like:\n\t- Box geometry\n\t- Boundary model\n\t- Solar position")
	runCmd.Flags().StringP("output", "o", "", "CSV file for the volume-mean temperature history")
	runCmd.Flags().IntP("parallel", "p", 0, "goroutines for the stencil sweep, 0 = NumCPU")
	runCmd.Flags().Bool("profile", false, "write a CPU profile for the run")
}
