package useragent

import (
	_ "embed"
	"fmt"
	"sync"

	"go.elara.ws/pcre"
	"gopkg.in/yaml.v3"
)

//go:embed bots.yml
var botDatabase []byte

// BotEntry is one recognized automated client pattern.
type BotEntry struct {
	Regex string `yaml:"regex"`
	Name  string `yaml:"name"`
}

// Compiled regex cache
type regexCache struct {
	compiled map[string]*pcre.Regexp
	mutex    sync.RWMutex
}

func newRegexCache() *regexCache {
	return &regexCache{
		compiled: make(map[string]*pcre.Regexp),
	}
}

func (rc *regexCache) get(pattern string) (*pcre.Regexp, error) {
	rc.mutex.RLock()
	if regex, exists := rc.compiled[pattern]; exists {
		rc.mutex.RUnlock()
		return regex, nil
	}
	rc.mutex.RUnlock()

	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	// Double-check pattern
	if regex, exists := rc.compiled[pattern]; exists {
		return regex, nil
	}

	regex, err := pcre.Compile(pattern)
	if err != nil {
		return nil, err
	}
	rc.compiled[pattern] = regex
	return regex, nil
}

type botDetector struct {
	bots  []BotEntry
	cache *regexCache
}

var (
	detector *botDetector
	once     sync.Once
)

func getDetector() *botDetector {
	once.Do(func() {
		detector = &botDetector{cache: newRegexCache()}
		if err := yaml.Unmarshal(botDatabase, &detector.bots); err != nil {
			fmt.Printf("Error parsing bots.yml: %v\n", err)
		}
	})
	return detector
}

// IsBot reports whether the user agent matches a known automated
// client. Patterns that fail to compile are skipped rather than
// failing the whole view.
func IsBot(userAgent string) bool {
	if userAgent == "" {
		return false
	}

	d := getDetector()
	for _, bot := range d.bots {
		if regex, err := d.cache.get(bot.Regex); err == nil {
			if regex.MatchString(userAgent) {
				return true
			}
		}
	}
	return false
}
