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

// Command burl is a curl-like CLI built directly on httpclient/ioops/
// message/stream rather than net/http, exercising the same composed
// read/write operations a server-side session drives, mirroring the
// origin's example/client/burl.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sabouaram/htcore/httpclient"
)

var (
	method      string
	headerFlags []string
	dataFlag    string
	includeHead bool
	insecure    bool
)

func main() {
	root := &cobra.Command{
		Use:     "burl [flags] <url>",
		Short:   "curl-like client for the htcore HTTP/1 stack",
		Args:    cobra.ExactArgs(1),
		Example: "burl -X POST -d '{\"ok\":true}' https://example.com/api",
		RunE:    run,
	}

	root.Flags().StringVarP(&method, "request", "X", "GET", "HTTP method")
	root.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, "extra request header, \"Key: Value\"")
	root.Flags().StringVarP(&dataFlag, "data", "d", "", "request body")
	root.Flags().BoolVarP(&includeHead, "include", "i", false, "include the response status line and headers in output")
	root.Flags().BoolVarP(&insecure, "insecure", "k", false, "skip TLS certificate verification")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	c := httpclient.New()

	var body []byte
	if dataFlag != "" {
		body = []byte(dataFlag)
	}

	res, err := c.Do(context.Background(), strings.ToUpper(method), args[0], body)
	if err != nil {
		return err
	}

	if includeHead {
		statusColor := color.GreenString
		if res.StatusCode >= 400 {
			statusColor = color.RedString
		}
		fmt.Fprintln(cmd.OutOrStdout(), statusColor("%s %d %s", res.Proto, res.StatusCode, res.Reason))
		for k, vs := range res.Header {
			for _, v := range vs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, v)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	_, err = cmd.OutOrStdout().Write(res.Body)
	return err
}
