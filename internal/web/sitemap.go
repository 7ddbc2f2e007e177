package web

import (
	"encoding/xml"
	"net/url"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (s *Server) absoluteURL(path string) string {
	return s.siteURL + path
}

func articlePath(slug string) string {
	return "/blog/" + url.PathEscape(slug)
}
