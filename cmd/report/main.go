package main

import "github.com/gainboard/gainboard/internal/report"

func main() {
	report.Execute()
}
