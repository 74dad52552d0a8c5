package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
)

var (
	csvFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing the volume-mean history written by hotbox run -o")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	days := readCSV(csvFile)
	fmt.Printf("day, samples, min, max, mean, swing\n")
	for i, d := range days {
		fmt.Printf("%d, %d, %7.3f, %7.3f, %7.3f, %7.3f\n",
			i, d.n, d.min, d.max, d.Mean(), d.max-d.min)
	}
}

type DayStats struct {
	n        int
	min, max float64
	sum      float64
}

func NewDayStats() *DayStats {
	return &DayStats{min: math.Inf(1), max: math.Inf(-1)}
}

func (d *DayStats) Add(v float64) {
	d.n++
	d.sum += v
	d.min = math.Min(d.min, v)
	d.max = math.Max(d.max, v)
}

func (d *DayStats) Mean() float64 {
	if d.n == 0 {
		return math.NaN()
	}
	return d.sum / float64(d.n)
}

func readCSV(fileName string) (days []*DayStats) {
	f, err := os.Open(fileName)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	r := csv.NewReader(bufio.NewReader(f))
	records, err := r.ReadAll()
	if err != nil {
		panic(err)
	}
	for i, rec := range records {
		if i == 0 && rec[0] == "time_s" {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			panic(err)
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			panic(err)
		}
		day := int(t / 86400)
		for len(days) <= day {
			days = append(days, NewDayStats())
		}
		days[day].Add(v)
	}
	return
}
