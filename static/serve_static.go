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

// Package static serves files from a document root as a router.Handler,
// the way the npm package serve-static does. A caller registers it with
// router.Router.Use (on any Router, mounted or not); it streams every response
// body through body.WriteStream instead of buffering it into
// message.Response.Body, so even large files never sit fully in memory.
package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sabouaram/htcore/body"
	"github.com/sabouaram/htcore/ioops"
	"github.com/sabouaram/htcore/message"
	"github.com/sabouaram/htcore/router"
	"github.com/sabouaram/htcore/session"
)

// DotfilesPolicy controls how a request for a path whose final segment
// begins with "." is handled.
type DotfilesPolicy int

const (
	DotfilesIgnore DotfilesPolicy = iota // treat as not found (the default)
	DotfilesAllow                        // serve it normally
	DotfilesDeny                         // respond 403 Forbidden
)

// Options configures a Handler. The zero value is not ready to use;
// start from DefaultOptions.
type Options struct {
	Dotfiles DotfilesPolicy

	// MaxAge is the Cache-Control max-age to advertise; zero sends
	// Cache-Control: no-cache instead.
	MaxAge time.Duration

	AcceptRanges bool // advertise Accept-Ranges: bytes (range requests themselves are not served)
	CacheControl bool
	ETag         bool
	LastModified bool
	Immutable    bool // add the "immutable" Cache-Control directive

	// Index serves "index.html" for a request ending in "/".
	Index bool

	// Redirect sends a 301 to the slash-terminated form when a request
	// for an existing directory is missing its trailing slash.
	Redirect bool

	// Fallthrough makes a handler return router.Next instead of sending
	// an error response when the method isn't GET/HEAD, the path is an
	// ignored dotfile (a denied one always gets 403) or escapes root, or
	// no file is found — letting a later layer (or
	// the router's no-match 404) take over. Mirrors the origin's
	// serve_static::options::fallthrough, which recommends true so
	// several static roots (or a static root and dynamic routes) can be
	// mounted at the same prefix.
	Fallthrough bool
}

// DefaultOptions mirrors the origin's serve_static::options defaults.
func DefaultOptions() Options {
	return Options{
		Dotfiles:     DotfilesIgnore,
		AcceptRanges: true,
		CacheControl: true,
		ETag:         true,
		LastModified: true,
		Index:        true,
		Redirect:     true,
		Fallthrough:  true,
	}
}

// New returns a router.Handler that serves files under root.
func New(root string, opt Options) router.Handler {
	root = filepath.Clean(root)

	return func(ctx context.Context, req *message.Request, res *message.Response, c router.Captures) (router.Result, error) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			if opt.Fallthrough {
				return router.Next, nil
			}
			res.StatusCode = http.StatusMethodNotAllowed
			res.Header.Set("Allow", "GET, HEAD")
			return router.Send, nil
		}

		reqPath := req.Path
		if reqPath == "" {
			reqPath = "/"
		}

		if strings.HasPrefix(path.Base(reqPath), ".") {
			switch opt.Dotfiles {
			case DotfilesDeny:
				res.StatusCode = http.StatusForbidden
				return router.Send, nil
			case DotfilesIgnore:
				if opt.Fallthrough {
					return router.Next, nil
				}
				res.StatusCode = http.StatusNotFound
				return router.Send, nil
			}
		}

		fsPath, ok := resolvePath(root, reqPath)
		if !ok {
			if opt.Fallthrough {
				return router.Next, nil
			}
			res.StatusCode = http.StatusForbidden
			return router.Send, nil
		}

		info, err := os.Stat(fsPath)
		if err == nil && info.IsDir() {
			if !strings.HasSuffix(reqPath, "/") {
				if opt.Redirect {
					res.StatusCode = http.StatusMovedPermanently
					res.Header.Set("Location", req.BasePath+reqPath+"/")
					return router.Send, nil
				}
				err = os.ErrNotExist
			} else if opt.Index {
				fsPath = filepath.Join(fsPath, "index.html")
				info, err = os.Stat(fsPath)
			} else {
				err = os.ErrNotExist
			}
		}
		if err != nil || info == nil || info.IsDir() {
			if opt.Fallthrough {
				return router.Next, nil
			}
			res.StatusCode = http.StatusNotFound
			return router.Send, nil
		}

		f, err := os.Open(fsPath)
		if err != nil {
			if opt.Fallthrough {
				return router.Next, nil
			}
			res.StatusCode = http.StatusNotFound
			return router.Send, nil
		}
		defer f.Close()

		strm, ok := session.StreamFrom(ctx)
		if !ok {
			res.StatusCode = http.StatusInternalServerError
			return router.Send, nil
		}

		if res.Header == nil {
			res.Header = make(http.Header)
		}
		res.StatusCode = http.StatusOK
		res.Length = info.Size()
		res.Header.Set("Content-Type", mimeType(fsPath))
		if opt.AcceptRanges {
			res.Header.Set("Accept-Ranges", "bytes")
		}
		if opt.LastModified {
			res.Header.Set("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
		}
		if opt.ETag {
			res.Header.Set("ETag", fileETag(info))
		}
		if opt.CacheControl {
			res.Header.Set("Cache-Control", cacheControlValue(opt))
		}

		ser := message.NewResponseSerializer()
		handle, err := ser.StartStream(res)
		if err != nil {
			return router.Close, err
		}

		if req.Method == http.MethodHead {
			if err := handle.Close(); err != nil {
				return router.Close, err
			}
		} else {
			ws := body.NewWriteStream(strm, ser, handle)
			buf := make([]byte, 64*1024)
			for {
				n, rerr := f.Read(buf)
				if n > 0 {
					if _, werr := ws.WriteSome(ctx, buf[:n]); werr != nil {
						return router.Close, werr
					}
				}
				if rerr == io.EOF {
					break
				}
				if rerr != nil {
					return router.Close, rerr
				}
			}
			if err := ws.Close(ctx); err != nil {
				return router.Close, err
			}
			return router.Complete, nil
		}

		if _, err := ioops.Write(ctx, strm, ser); err != nil {
			return router.Close, err
		}
		return router.Complete, nil
	}
}

// resolvePath joins reqPath onto root, rejecting any result that would
// escape it (a ".." segment surviving path.Clean, or a symlink is not
// checked further — callers that need that guarantee should resolve
// root itself with filepath.EvalSymlinks before calling New).
func resolvePath(root, reqPath string) (string, bool) {
	clean := path.Clean("/" + reqPath)
	rel := filepath.FromSlash(strings.TrimPrefix(clean, "/"))
	full := filepath.Clean(filepath.Join(root, rel))

	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

// mimeType ports the origin's extension table rather than deferring to
// the standard library's mime package, whose registered types differ
// from it for several extensions (".jpe", ".swf", ".bmp", ...); the
// unmatched fallback of "application/text" also matches the origin.
func mimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".htm", ".html", ".php":
		return "text/html"
	case ".css":
		return "text/css"
	case ".txt":
		return "text/plain"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".xml":
		return "application/xml"
	case ".swf":
		return "application/x-shockwave-flash"
	case ".flv":
		return "video/x-flv"
	case ".png":
		return "image/png"
	case ".jpe", ".jpeg", ".jpg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".ico":
		return "image/vnd.microsoft.icon"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".svg", ".svgz":
		return "image/svg+xml"
	default:
		return "application/text"
	}
}

func fileETag(info os.FileInfo) string {
	return fmt.Sprintf(`"%x-%x"`, info.ModTime().Unix(), info.Size())
}

func cacheControlValue(opt Options) string {
	if opt.MaxAge <= 0 {
		return "no-cache"
	}
	v := fmt.Sprintf("public, max-age=%d", int(opt.MaxAge.Seconds()))
	if opt.Immutable {
		v += ", immutable"
	}
	return v
}
