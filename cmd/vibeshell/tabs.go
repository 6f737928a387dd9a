package main

import (
	"context"

	"github.com/chrisuehlinger/vibeshell/engine"
	"github.com/chrisuehlinger/vibeshell/network"
	"github.com/chrisuehlinger/vibeshell/storage"
)

// openTabsKey holds the addresses of the tabs open at exit, in strip order.
const openTabsKey = "tabs/open"

func tabURLs(m *engine.TabManager) []string {
	var urls []string
	for _, t := range m.Tabs() {
		if u := t.URL(); u != "" && u != network.BlankURL {
			urls = append(urls, u)
		}
	}
	return urls
}

func loadTabs(ctx context.Context, store storage.Provider) ([]string, error) {
	var urls []string
	if _, err := store.Get(ctx, openTabsKey, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

func saveTabs(ctx context.Context, store storage.Provider, urls []string) error {
	if len(urls) == 0 {
		return store.Remove(ctx, openTabsKey)
	}
	return store.Set(ctx, openTabsKey, urls)
}
