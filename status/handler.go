/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package status

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// ComponentReport is the JSON shape rendered for a single component.
type ComponentReport struct {
	Name    string `json:"name"`
	Release string `json:"release"`
	Hash    string `json:"hash"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// Report is the JSON shape rendered for the whole registry.
type Report struct {
	Healthy    bool              `json:"healthy"`
	Components []ComponentReport `json:"components"`
}

// Handler renders r's current status as JSON. msg formats the per-component
// message line; with nil, a failing component's message is its
// err.Error().
func Handler(r RouteStatus, msg FctMessage) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()

		rep := Report{Healthy: true}

		r.Walk(func(key string, c Component) {
			if c == nil {
				return
			}

			err := c.Health(ctx)
			version, hash := c.Release()

			cr := ComponentReport{
				Name:    c.Name(),
				Release: version,
				Hash:    hash,
				Healthy: err == nil,
			}

			if err != nil {
				rep.Healthy = false
				if msg != nil {
					cr.Message = msg(key, err)
				} else {
					cr.Message = err.Error()
				}
			}

			rep.Components = append(rep.Components, cr)
		})

		w.Header().Set("Content-Type", "application/json")
		if !rep.Healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(rep)
	}
}
