package service

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/fairdirect/foodrescue-content/internal/app/repository"
	"github.com/fairdirect/foodrescue-content/pkg/logger"
)

// DocBook 5 rendering of topics, one <section> per topic plus a shared
// bibliography. The mobile app's content build consumes this.

type docbookArticle struct {
	XMLName  xml.Name         `xml:"article"`
	XMLNS    string           `xml:"xmlns,attr"`
	Version  string           `xml:"version,attr"`
	Title    string           `xml:"title"`
	Sections []docbookSection `xml:"section"`
	Biblio   *docbookBiblio   `xml:"bibliography,omitempty"`
}

type docbookSection struct {
	ID    string      `xml:"xml:id,attr,omitempty"`
	Title string      `xml:"title"`
	Info  docbookInfo `xml:"info"`
	Paras []string    `xml:"para"`
}

type docbookInfo struct {
	Author  string `xml:"author>personname,omitempty"`
	Date    string `xml:"date,omitempty"`
	Subject string `xml:"subjectset>subject>subjectterm,omitempty"`
}

type docbookBiblio struct {
	Title   string           `xml:"title"`
	Entries []docbookBibItem `xml:"bibliomixed"`
}

type docbookBibItem struct {
	ID   string `xml:"xml:id,attr"`
	Text string `xml:",chardata"`
}

type TopicExportService interface {
	// ExportDocBook renders all topics as a DocBook 5 article.
	ExportDocBook(w io.Writer) (int, error)
}

type topicExportService struct {
	topics repository.TopicRepository
}

func NewTopicExportService(topics repository.TopicRepository) TopicExportService {
	return &topicExportService{topics: topics}
}

func (s *topicExportService) ExportDocBook(w io.Writer) (int, error) {
	exports, err := s.topics.ListForExport()
	if err != nil {
		return 0, err
	}

	article := docbookArticle{
		XMLNS:   "http://docbook.org/ns/docbook",
		Version: "5.0",
		Title:   "Food Rescue Content",
	}

	seenRefs := make(map[string]bool)
	var biblio docbookBiblio

	for _, export := range exports {
		section := docbookSection{
			ID:    fmt.Sprintf("topic-%d", export.Topic.ID),
			Title: export.Topic.Title,
			Info: docbookInfo{
				Author:  export.Topic.Author,
				Subject: strings.Join(export.Categories, ", "),
			},
		}
		if !export.Topic.Version.IsZero() {
			section.Info.Date = export.Topic.Version.Format("2006-01-02")
		}
		for _, para := range strings.Split(export.Topic.Body, "\n\n") {
			if para = strings.TrimSpace(para); para != "" {
				section.Paras = append(section.Paras, para)
			}
		}
		article.Sections = append(article.Sections, section)

		for _, ref := range export.References {
			if seenRefs[ref.RefID] {
				continue
			}
			seenRefs[ref.RefID] = true
			biblio.Entries = append(biblio.Entries, docbookBibItem{
				ID:   "ref-" + ref.RefID,
				Text: ref.Details,
			})
		}
	}

	if len(biblio.Entries) > 0 {
		biblio.Title = "Bibliography"
		article.Biblio = &biblio
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return 0, err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(article); err != nil {
		return 0, fmt.Errorf("failed to encode DocBook article: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return 0, err
	}

	logger.Info("DocBook export finished", map[string]interface{}{
		"topics":     len(exports),
		"references": len(biblio.Entries),
	})
	return len(exports), nil
}
