// Command recur-cli parses natural-language recurrence descriptions into
// structured descriptors, one-shot or interactively.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/chronotext/recur/pkg/recur"
	"github.com/chronotext/recur/pkg/recur/config"
	"github.com/chronotext/recur/pkg/recur/store/sqlite"
)

func main() {
	var (
		configPath = flag.String("config", "", "Config file (optional)")
		dbPath     = flag.String("db", "", "Rule database path (optional, enables /save)")
		text       = flag.String("text", "", "One-shot input (non-interactive mode)")
		anchor     = flag.String("anchor", "", "Anchor date YYYY-MM-DD for relative phrases")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	anchorDate := time.Now()
	if *anchor != "" {
		parsed, err := time.Parse("2006-01-02", *anchor)
		if err != nil {
			log.Fatalf("bad --anchor: %v", err)
		}
		anchorDate = parsed
	}

	ctx := context.Background()

	opts := recur.Options{Config: cfg}
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

	// One-shot mode
	if *text != "" {
		printResult(parser, *text, anchorDate)
		return
	}

	// Interactive mode
	fmt.Println("===========================================")
	fmt.Println("  recur CLI")
	fmt.Println("  free text in, recurrence descriptor out")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Type a phrase (/save <phrase> to persist, Ctrl+D to exit):")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if phrase, ok := strings.CutPrefix(line, "/save "); ok {
			saved, err := parser.Save(ctx, strings.TrimSpace(phrase))
			if err != nil {
				fmt.Printf("save failed: %v\n\n", err)
				continue
			}
			fmt.Printf("saved as %s\n\n", saved.ID)
			continue
		}

		printResult(parser, line, anchorDate)
	}
}

func printResult(parser *recur.Parser, text string, anchor time.Time) {
	r, err := parser.ParseAt(text, anchor)
	if err != nil {
		if errors.Is(err, recur.ErrNoMatch) {
			fmt.Println("no recurrence pattern recognized")
			for _, w := range r.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}
			fmt.Println()
			return
		}
		fmt.Printf("parse failed: %v\n\n", err)
		return
	}

	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		fmt.Printf("encode failed: %v\n\n", err)
		return
	}
	fmt.Println(string(out))
	fmt.Println()
}
