// Command harvest-page fetches a web page, strips it to plain text and
// scans it for recognizable recurrence phrases ("every monday", "1st of
// the month"), optionally saving the hits to a rule database.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/chronotext/recur/pkg/recur"
	"github.com/chronotext/recur/pkg/recur/config"
	"github.com/chronotext/recur/pkg/recur/store/sqlite"
)

func main() {
	var (
		url           = flag.String("url", "", "Page URL (required)")
		dbPath        = flag.String("db", "", "Rule database path (optional)")
		minConfidence = flag.Float64("min-confidence", 0.8, "Minimum confidence to report")
	)
	flag.Parse()

	if *url == "" {
		log.Fatal("--url required")
	}

	ctx := context.Background()

	opts := recur.Options{Config: config.Default()}
	if *dbPath != "" {
		st, err := sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatal(err)
		}
		opts.Store = st
	}
	parser, err := recur.New(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer parser.Close()

	body, err := fetch(ctx, *url)
	if err != nil {
		log.Fatal(err)
	}
	text := stripHTML(body)

	hits := 0
	for _, sentence := range splitSentences(text) {
		v := parser.Validate(sentence)
		if !v.Valid || v.Confidence < *minConfidence {
			continue
		}
		hits++
		fmt.Printf("%.2f  %s\n", v.Confidence, sentence)

		if *dbPath != "" {
			if _, err := parser.Save(ctx, sentence); err != nil {
				log.Printf("save %q: %v", sentence, err)
			}
		}
	}
	fmt.Printf("\n%d recurrence phrase(s) found\n", hits)
}

func fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to the raw string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}

// splitSentences breaks page text into candidate phrases on sentence
// punctuation and newlines, dropping fragments too short to carry a
// recurrence pattern.
func splitSentences(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == ';' || r == '\n'
	})
	var out []string
	for _, f := range fields {
		f = strings.Join(strings.Fields(f), " ")
		if len(f) < 4 || len(f) > 200 {
			continue
		}
		out = append(out, f)
	}
	return out
}
