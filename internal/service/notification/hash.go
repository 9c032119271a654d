package notification

import (
	"encoding/hex"
	"strconv"

	"golang.org/x/crypto/blake2b"

	"wiki-echo/internal/domain"
)

// BundleHash groups events of one type about one page.
func BundleHash(event *domain.Event) string {
	ns := 0
	if event.PageNamespace != nil {
		ns = *event.PageNamespace
	}
	title := ""
	if event.PageTitle != nil {
		title = *event.PageTitle
	}
	return digest(event.Type + "|" + strconv.Itoa(ns) + "|" + title)
}

// DisplayHash starts a new visible bundle for bundleHash at eventID.
func DisplayHash(bundleHash string, eventID int64) string {
	return digest(bundleHash + "-" + strconv.FormatInt(eventID, 10))
}

func digest(s string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}
