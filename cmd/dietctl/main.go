// Command dietctl manages the diet dataset: inspecting and cleaning files,
// importing them into the database, uploading them to S3 and publishing
// precomputed summaries.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
