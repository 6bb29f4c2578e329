package views

import (
	"docsearch/internal/web/appcore"
	"github.com/a-h/templ"
)

const siteName = "docsearch"

// datastarScript pins the client bundle matching the datastar-go SSE format.
const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

type navItem struct {
	view  string
	label string
	href  string
}

var navItems = []navItem{
	{view: appcore.ViewHome, label: "Home", href: "/"},
	{view: appcore.ViewSearch, label: "Search", href: "/search"},
	{view: appcore.ViewBrowse, label: "Browse", href: "/browse"},
}

func Layout(view appcore.LayoutView, child templ.Component) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(pageTitle(view.LayoutPageTitle()))
		hw.raw(`</title>`)
		hw.raw(`<link rel="stylesheet" href="/static/style.css">`)
		hw.raw(`<script type="module"`)
		hw.attr("src", datastarScript)
		hw.raw(`></script></head><body>`)

		hw.raw(`<header class="site-header"><a class="brand" href="/">`, siteName, `</a><nav>`)
		for _, item := range navItems {
			hw.raw(`<a`)
			hw.attr("href", item.href)
			if item.view == view.LayoutActiveView() {
				hw.raw(` class="active" aria-current="page"`)
			}
			hw.raw(`>`)
			hw.text(item.label)
			hw.raw(`</a>`)
		}
		hw.raw(`</nav>`)
		hw.raw(`<form class="header-search" action="/search" method="get" role="search">`)
		hw.raw(`<input type="search" name="q" placeholder="Search documents" aria-label="Search documents"`)
		hw.attr("value", view.LayoutSearchQuery())
		hw.raw(`></form></header>`)

		hw.raw(`<main>`)
		hw.component(child)
		hw.raw(`</main></body></html>`)
	})
}

func pageTitle(title string) string {
	if title == "" {
		return siteName
	}
	return title + " :: " + siteName
}
