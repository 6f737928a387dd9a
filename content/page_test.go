package content

import (
	"reflect"
	"testing"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Page
	}{
		{
			name: "title and theme color",
			src:  `<html><head><title>  Hello
				World </title><meta name="Theme-Color" content=" #336699 "></head></html>`,
			want: Page{Title: "Hello World", HasTitle: true, ThemeColor: "#336699"},
		},
		{
			name: "first title wins",
			src:  `<title>One</title><title>Two</title>`,
			want: Page{Title: "One", HasTitle: true},
		},
		{
			name: "empty title",
			src:  `<title></title>`,
			want: Page{HasTitle: true},
		},
		{
			name: "svg title ignored",
			src:  `<body><svg><title>tooltip</title></svg></body>`,
			want: Page{},
		},
		{
			name: "scripts in order",
			src: `<script src="a.js"></script><script>var x = 1;</script>` +
				`<script type="module">skip()</script><script type="text/javascript">y()</script>`,
			want: Page{Scripts: []Script{{Src: "a.js"}, {Code: "var x = 1;"}, {Code: "y()"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePage([]byte(tt.src))
			if err != nil {
				t.Fatalf("ParsePage() error = %v", err)
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("ParsePage() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}
