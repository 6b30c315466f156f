package extract

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

// extractWeb reads a .url file (one URL per line, "#" comments allowed) and
// fetches each page, yielding one unit per URL. A failing URL is logged and
// skipped; only an unreadable .url file fails the whole extraction.
func (e *Extractor) extractWeb(ctx context.Context, path string) ([]Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", apperrors.ErrExtraction, path, err)
	}
	defer f.Close()

	var units []Unit
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		url := strings.TrimSpace(scanner.Text())
		if url == "" || strings.HasPrefix(url, "#") {
			continue
		}
		unit, err := e.fetchPage(ctx, url)
		if err != nil {
			e.logger.Warn("failed to fetch url",
				zap.String("url", url),
				zap.Error(err))
			continue
		}
		units = append(units, unit)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrExtraction, path, err)
	}
	return units, nil
}

func (e *Extractor) fetchPage(ctx context.Context, url string) (Unit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Unit{}, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return Unit{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Unit{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return Unit{}, err
	}
	title, paragraphs := pageText(doc)

	text := strings.TrimSpace(title + "\n" + strings.Join(paragraphs, "\n"))
	if text == "" {
		return Unit{}, fmt.Errorf("no indexable text")
	}
	return Unit{Text: text, Title: title, Location: url}, nil
}

// pageText walks the parse tree collecting the <title> and all <p> text.
func pageText(doc *html.Node) (title string, paragraphs []string) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" {
					title = strings.TrimSpace(nodeText(n))
				}
				return
			case "p":
				if t := strings.TrimSpace(nodeText(n)); t != "" {
					paragraphs = append(paragraphs, t)
				}
				return
			case "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title, paragraphs
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
