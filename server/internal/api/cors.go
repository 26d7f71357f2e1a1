package api

import (
	"net/http"
	"strings"

	"github.com/edgepulse/edgepulse/server/internal/config"
)

// corsMaxAge is how long browsers may cache a preflight result, in seconds.
const corsMaxAge = "600"

// cors applies the configured cross-origin policy. A "*" entry in any list
// allows every value for that list.
type cors struct {
	anyOrigin  bool
	anyMethod  bool
	anyHeader  bool
	origins    map[string]struct{}
	methods    map[string]struct{}
	methodList string
	headerList string
}

func newCORS(cfg config.CORSConfig) *cors {
	c := &cors{
		origins: make(map[string]struct{}),
		methods: make(map[string]struct{}),
	}
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			c.anyOrigin = true
		}
		c.origins[o] = struct{}{}
	}
	methods := make([]string, 0, len(cfg.AllowMethods))
	for _, m := range cfg.AllowMethods {
		if m == "*" {
			c.anyMethod = true
			continue
		}
		m = strings.ToUpper(m)
		c.methods[m] = struct{}{}
		methods = append(methods, m)
	}
	c.methodList = strings.Join(methods, ", ")

	headers := make([]string, 0, len(cfg.AllowHeaders))
	for _, h := range cfg.AllowHeaders {
		if h == "*" {
			c.anyHeader = true
			continue
		}
		headers = append(headers, h)
	}
	c.headerList = strings.Join(headers, ", ")
	return c
}

func (c *cors) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}
		reqMethod := r.Header.Get("Access-Control-Request-Method")
		if r.Method == http.MethodOptions && reqMethod != "" {
			c.preflight(w, r, origin, reqMethod)
			return
		}
		c.setOrigin(w.Header(), origin)
		next.ServeHTTP(w, r)
	})
}

func (c *cors) preflight(w http.ResponseWriter, r *http.Request, origin, reqMethod string) {
	hdr := w.Header()

	var failures []string
	if !c.originAllowed(origin) {
		failures = append(failures, "origin")
	}
	if !c.methodAllowed(reqMethod) {
		failures = append(failures, "method")
	}
	if len(failures) > 0 {
		hdr.Add("Vary", "Origin")
		http.Error(w, "Disallowed CORS "+strings.Join(failures, ", "), http.StatusBadRequest)
		return
	}

	c.setOrigin(hdr, origin)
	if c.anyMethod {
		hdr.Set("Access-Control-Allow-Methods", strings.ToUpper(reqMethod))
	} else {
		hdr.Set("Access-Control-Allow-Methods", c.methodList)
	}
	if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); c.anyHeader && reqHeaders != "" {
		hdr.Set("Access-Control-Allow-Headers", reqHeaders)
	} else if c.headerList != "" {
		hdr.Set("Access-Control-Allow-Headers", c.headerList)
	}
	hdr.Set("Access-Control-Max-Age", corsMaxAge)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK")) //nolint:errcheck
}

// setOrigin writes Access-Control-Allow-Origin for an allowed origin and
// nothing otherwise.
func (c *cors) setOrigin(hdr http.Header, origin string) {
	switch {
	case c.anyOrigin:
		hdr.Set("Access-Control-Allow-Origin", "*")
	case c.originAllowed(origin):
		hdr.Set("Access-Control-Allow-Origin", origin)
		hdr.Add("Vary", "Origin")
	}
}

func (c *cors) originAllowed(origin string) bool {
	if c.anyOrigin {
		return true
	}
	_, ok := c.origins[origin]
	return ok
}

func (c *cors) methodAllowed(method string) bool {
	if c.anyMethod {
		return true
	}
	_, ok := c.methods[strings.ToUpper(method)]
	return ok
}
