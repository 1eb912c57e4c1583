package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

func main() {
	reportDir := flag.String("dir", "report_output", "report output directory")
	dryRun := flag.Bool("n", false, "only print what would be deleted")
	flag.Parse()

	reports := flag.Args()
	if len(reports) == 0 {
		reports = []string{"report.html"}
	}

	allowedFiles := make(map[string]bool)

	// 1. Parse reports to find allowed images
	for _, reportName := range reports {
		path := filepath.Join(*reportDir, reportName)
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			fmt.Printf("Report not found, skipping: %s\n", path)
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", path, err)
			os.Exit(1)
		}

		refs, err := referencedImages(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", path, err)
			os.Exit(1)
		}
		for name := range refs {
			allowedFiles[name] = true
			fmt.Printf("Keeping: %s (referenced in %s)\n", name, reportName)
		}
	}

	// 2. Walk directory and delete unreferenced images
	entries, err := os.ReadDir(*reportDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *reportDir, err)
		os.Exit(1)
	}

	deletedCount := 0
	keptCount := 0

	for _, entry := range entries {
		if entry.IsDir() || !isReportImage(entry.Name()) {
			continue
		}

		name := entry.Name()
		if allowedFiles[name] {
			keptCount++
			continue
		}

		fmt.Printf("Deleting: %s\n", name)
		if !*dryRun {
			if err := os.Remove(filepath.Join(*reportDir, name)); err != nil {
				fmt.Printf("Error deleting %s: %v\n", name, err)
				continue
			}
		}
		deletedCount++
	}

	fmt.Printf("\nCleanup complete. Kept %d files, deleted %d files.\n", keptCount, deletedCount)
}

// referencedImages returns the base names of every <img src> in an HTML document.
func referencedImages(r io.Reader) (map[string]bool, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	refs := make(map[string]bool)
	var crawler func(*html.Node)
	crawler = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, a := range n.Attr {
				if a.Key == "src" && a.Val != "" {
					refs[filepath.Base(a.Val)] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			crawler(c)
		}
	}
	crawler(doc)
	return refs, nil
}

func isReportImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
