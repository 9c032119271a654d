package domain

import "strings"

const (
	NSMain          = 0
	NSTalk          = 1
	NSUser          = 2
	NSUserTalk      = 3
	NSProject       = 4
	NSProjectTalk   = 5
	NSFile          = 6
	NSFileTalk      = 7
	NSMediaWiki     = 8
	NSMediaWikiTalk = 9
	NSTemplate      = 10
	NSTemplateTalk  = 11
	NSHelp          = 12
	NSHelpTalk      = 13
	NSCategory      = 14
	NSCategoryTalk  = 15
	NSSpecial       = -1
)

var canonicalNamespaces = map[int]string{
	NSSpecial:       "Special",
	NSMain:          "",
	NSTalk:          "Talk",
	NSUser:          "User",
	NSUserTalk:      "User talk",
	NSProject:       "Project",
	NSProjectTalk:   "Project talk",
	NSFile:          "File",
	NSFileTalk:      "File talk",
	NSMediaWiki:     "MediaWiki",
	NSMediaWikiTalk: "MediaWiki talk",
	NSTemplate:      "Template",
	NSTemplateTalk:  "Template talk",
	NSHelp:          "Help",
	NSHelpTalk:      "Help talk",
	NSCategory:      "Category",
	NSCategoryTalk:  "Category talk",
}

// Title is a namespaced page name. DBKey uses underscores, Text spaces.
type Title struct {
	Namespace int
	DBKey     string
}

func NewTitle(namespace int, dbKey string) *Title {
	return &Title{Namespace: namespace, DBKey: strings.ReplaceAll(dbKey, " ", "_")}
}

func (t *Title) Text() string {
	return strings.ReplaceAll(t.DBKey, "_", " ")
}

func (t *Title) NSText() string {
	return canonicalNamespaces[t.Namespace]
}

func (t *Title) PrefixedText() string {
	if ns := t.NSText(); ns != "" {
		return ns + ":" + t.Text()
	}
	return t.Text()
}

func (t *Title) PrefixedDBKey() string {
	return strings.ReplaceAll(t.PrefixedText(), " ", "_")
}

// NamespaceName returns the canonical name for a namespace id and whether it is known.
func NamespaceName(ns int) (string, bool) {
	name, ok := canonicalNamespaces[ns]
	return name, ok
}
