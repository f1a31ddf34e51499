// Package session loads the authenticated cookie set attached to every catalog, playlist and segment request.
package session

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/episodl/episodl/filesystem"
	"github.com/samber/lo"
)

// ErrNoCookies is returned when a cookie file holds nothing usable.
var ErrNoCookies = errors.New("no cookies found")

// httpOnlyPrefix marks HttpOnly entries in Netscape cookie files.
const httpOnlyPrefix = "#HttpOnly_"

// Cookies maps cookie names to values. It is read-only once loaded.
type Cookies map[string]string

// Load reads a cookie file. Three line shapes are understood:
// Netscape cookie-file lines (seven tab-separated fields), single "name=value"
// pairs and "name=value; other=value" header lines.
func Load(path string) (Cookies, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}

	cookies, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cookies, nil
}

// Parse decodes cookie file contents.
func Parse(data []byte) (Cookies, error) {
	cookies := make(Cookies)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, httpOnlyPrefix)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if fields := strings.Split(line, "\t"); len(fields) == 7 {
			cookies[fields[5]] = fields[6]
			continue
		}

		for _, pair := range strings.Split(line, ";") {
			name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok || name == "" {
				continue
			}
			cookies[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(cookies) == 0 {
		return nil, ErrNoCookies
	}
	return cookies, nil
}

// Names returns the cookie names in sorted order.
func (c Cookies) Names() []string {
	names := lo.Keys(c)
	sort.Strings(names)
	return names
}

// Apply attaches every cookie to the request.
func (c Cookies) Apply(req *http.Request) {
	for _, name := range c.Names() {
		req.AddCookie(&http.Cookie{Name: name, Value: c[name]})
	}
}
