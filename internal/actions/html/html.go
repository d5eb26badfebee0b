package html

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	htmldom "golang.org/x/net/html"

	"aide/internal/utils"
)

func parseDoc(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func outerHTML(sel *goquery.Selection) string {
	var buf bytes.Buffer
	for _, n := range sel.Nodes {
		_ = htmldom.Render(&buf, n)
	}
	return buf.String()
}

func itemsResult(items []string) map[string]any {
	b, _ := json.Marshal(items)
	return map[string]any{"items_json": string(b)}
}

func handleTitles(_ context.Context, payload map[string]any) (map[string]any, error) {
	html, err := utils.GetStringPayload(payload, "html")
	if err != nil {
		return nil, err
	}
	doc, err := parseDoc(html)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	var items []string
	doc.Find("title, h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			items = append(items, t)
		}
	})
	return itemsResult(items), nil
}

func handleLinks(_ context.Context, payload map[string]any) (map[string]any, error) {
	html, err := utils.GetStringPayload(payload, "html")
	if err != nil {
		return nil, err
	}
	baseURL, _ := payload["base_url"].(string)

	doc, err := parseDoc(html)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	var items []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		text := strings.TrimSpace(s.Text())
		resolved := utils.Absolute(baseURL, href)
		if text == "" {
			items = append(items, resolved)
			return
		}
		items = append(items, fmt.Sprintf("%s (%s)", text, resolved))
	})
	return itemsResult(items), nil
}

func handleText(_ context.Context, payload map[string]any) (map[string]any, error) {
	html, err := utils.GetStringPayload(payload, "html")
	if err != nil {
		return nil, err
	}
	doc, err := parseDoc(html)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	var items []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return itemsResult(items), nil
}

func handleSelect(_ context.Context, payload map[string]any) (map[string]any, error) {
	html, err := utils.GetStringPayload(payload, "html")
	if err != nil {
		return nil, err
	}
	selector, err := utils.GetStringPayload(payload, "selector")
	if err != nil {
		return nil, err
	}
	doc, err := parseDoc(html)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	var items []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			items = append(items, t)
		} else {
			items = append(items, outerHTML(s))
		}
	})
	return itemsResult(items), nil
}

func HandleHtmlAction(ctx context.Context, operation string, payload map[string]any) (map[string]any, error) {
	switch operation {
	case "titles":
		return handleTitles(ctx, payload)
	case "links":
		return handleLinks(ctx, payload)
	case "text":
		return handleText(ctx, payload)
	case "select":
		return handleSelect(ctx, payload)
	default:
		return nil, fmt.Errorf("unknown html operation: %s", operation)
	}
}
