package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeUA  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"
	edgeUA    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36 Edg/118.0.2088.46"
	firefoxUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/119.0"
	safariUA  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"edge wins over chrome token", edgeUA, LabelEdge},
		{"chrome wins over safari token", chromeUA, LabelChrome},
		{"firefox", firefoxUA, LabelFirefox},
		{"safari without chrome", safariUA, LabelSafari},
		{"opera", "Opera/9.80 (Windows NT 6.0) Presto/2.12.388 Version/12.14", LabelOpera},
		{"bare mobile token", "SomethingMobile/1.0", LabelMobile},
		{"android without mobile token", "Dalvik/2.1.0 (Linux; U; Android 13)", LabelAndroid},
		{"ipad", "SomeApp/2.0 (iPad; CPU OS 16_6 like Mac OS X)", LabelIOS},
		{"unrecognized", "TotallyNewBrowser/1.0", LabelOther},
		{"missing header", "", LabelUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.userAgent))
		})
	}
}

func TestIsBot(t *testing.T) {
	bots := []string{
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		"Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)",
		"curl/8.4.0",
		"python-requests/2.31.0",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) HeadlessChrome/118.0.0.0 Safari/537.36",
		"Mozilla/5.0 (compatible; SemrushBot/7~bl; +http://www.semrush.com/bot.html)",
	}
	for _, ua := range bots {
		assert.True(t, IsBot(ua), "expected bot: %s", ua)
	}

	humans := []string{chromeUA, edgeUA, firefoxUA, safariUA}
	for _, ua := range humans {
		assert.False(t, IsBot(ua), "expected human: %s", ua)
	}

	assert.False(t, IsBot(""))
}
