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
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/heatsim/hotbox/solar"
)

// sunpathCmd represents the sunpath command
var sunpathCmd = &cobra.Command{
	Use:   "sunpath",
	Short: "Print the sun geometry for a latitude and day of year",
	Long: `
Prints the solar declination, day length and the hourly sun direction for a
latitude and a day counted from the winter solstice. Useful for sanity
checking the solar source before a long run.

hotbox sunpath --latitude 35.6 --day 172`,
	Run: func(cmd *cobra.Command, args []string) {
		lat, _ := cmd.Flags().GetFloat64("latitude")
		day, _ := cmd.Flags().GetFloat64("day")
		PrintSunPath(lat, day)
	},
}

func PrintSunPath(latitudeDeg, daysSinceSolstice float64) {
	m := &solar.Model{
		LatitudeDeg:       latitudeDeg,
		DaysSinceSolstice: daysSinceSolstice,
		Intensity:         1,
		Coef:              1,
	}
	decl := m.Declination(daysSinceSolstice)
	fmt.Printf("%8.2f\t\t= Latitude [deg]\n", latitudeDeg)
	fmt.Printf("%8.1f\t\t= Days Since Winter Solstice\n", daysSinceSolstice)
	fmt.Printf("%8.3f\t\t= Declination [deg]\n", decl*180/math.Pi)
	fmt.Printf("%8.2f\t\t= Day Length [h]\n", solar.DayLength(latitudeDeg, decl)/3600)
	fmt.Printf("\nhour\tup\tsouth\teast\tdaylight\n")
	for hour := 0; hour <= 24; hour += 2 {
		s := m.Sun(float64(hour) * 3600)
		fmt.Printf("%02d:00\t%+.3f\t%+.3f\t%+.3f\t%v\n",
			hour%24, -s.RayUp, -s.RaySouth, -s.RayEast, s.Daylight)
	}
}

func init() {
	rootCmd.AddCommand(sunpathCmd)
	sunpathCmd.Flags().Float64("latitude", 35.6, "latitude in degrees, positive north")
	sunpathCmd.Flags().Float64("day", 0, "days since the winter solstice")
}
