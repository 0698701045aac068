// seed_comparisons.go is a standalone script that parses a results CSV and
// seeds saved comparisons via the Tally API.
//
// Usage:
//
//	go run scripts/seed_comparisons.go -csv results.csv -api http://localhost:8700 -name "Year 12 mocks"
//
// CSV format: one "subject,raw_result" pair per line; blank lines and lines
// starting with # are skipped.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

type rowPayload struct {
	Subject *string `json:"subject"`
	Raw     *string `json:"raw_result"`
	Rule    string  `json:"validation_rule,omitempty"`
}

type comparisonPayload struct {
	Name      string       `json:"name"`
	Owner     string       `json:"owner,omitempty"`
	Variation float64      `json:"variation"`
	RangeMode bool         `json:"range_mode"`
	Rows      []rowPayload `json:"rows"`
}

func main() {
	csvPath := flag.String("csv", "results.csv", "path to results CSV")
	apiURL := flag.String("api", "http://localhost:8700", "Tally API base URL")
	name := flag.String("name", "seeded comparison", "comparison name")
	owner := flag.String("owner", "", "comparison owner")
	variation := flag.Float64("variation", 5, "symmetric numeric variation")
	dryRun := flag.Bool("dry-run", false, "print payload without posting")
	flag.Parse()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	var rows []rowPayload
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			log.Printf("line %d: expected subject,result pair, skipped", lineNo)
			continue
		}
		subject := strings.TrimSpace(parts[0])
		result := strings.TrimSpace(parts[1])
		rows = append(rows, rowPayload{Subject: &subject, Raw: &result})
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read csv: %v", err)
	}
	if len(rows) == 0 {
		log.Fatal("no rows parsed")
	}

	payload := comparisonPayload{
		Name:      *name,
		Owner:     *owner,
		Variation: *variation,
		RangeMode: true,
		Rows:      rows,
	}
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}

	if *dryRun {
		fmt.Println(string(body))
		return
	}

	resp, err := http.Post(*apiURL+"/api/v1/comparisons", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("post comparison: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Fatalf("post comparison: status %d", resp.StatusCode)
	}
	fmt.Printf("seeded %d rows into %q\n", len(rows), *name)
}
