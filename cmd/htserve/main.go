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

// Command htserve assembles a listener, worker pool, router and server
// scaffold into a runnable binary, mirroring the origin's
// example/server/asio_server.*/main.cpp wiring.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sabouaram/htcore/logger"
	"github.com/sabouaram/htcore/message"
	"github.com/sabouaram/htcore/router"
	"github.com/sabouaram/htcore/server"
	"github.com/sabouaram/htcore/static"
)

type htserveConfig struct {
	Listen      string `mapstructure:"listen" validate:"required,hostname_port"`
	Concurrency int64  `mapstructure:"concurrency" validate:"gte=0"`

	// StaticRoot, when non-empty, serves files under it at the /static
	// prefix (router.Router.Use, so it falls through to later routes
	// instead of shadowing them — see static.Options.Fallthrough).
	StaticRoot string `mapstructure:"static_root" validate:"omitempty,dir"`
}

func (c htserveConfig) Validate() error {
	return validator.New().Struct(c)
}

func main() {
	var cfgFile string

	root := &cobra.Command{
		Use:   "htserve",
		Short: "example server built on the htcore worker pool and router",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cfgFile)
		},
	}
	root.Flags().StringVar(&cfgFile, "config", "", "path to a config file (yaml/toml/json)")
	root.Flags().String("listen", "127.0.0.1:8080", "address to listen on")
	root.Flags().Int64("concurrency", 64, "maximum concurrent in-flight sessions")
	root.Flags().String("static-root", "", "directory to serve at /static (disabled if empty)")
	_ = viper.BindPFlag("listen", root.Flags().Lookup("listen"))
	_ = viper.BindPFlag("concurrency", root.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("static_root", root.Flags().Lookup("static-root"))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig(cfgFile string) (htserveConfig, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return htserveConfig{}, err
		}
	}

	var cfg htserveConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return htserveConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return htserveConfig{}, err
	}
	return cfg, nil
}

func newRouter(cfg htserveConfig) *router.Router {
	r := router.New()
	_ = r.Handle("GET", "/healthz", func(ctx context.Context, req *message.Request, res *message.Response, c router.Captures) (router.Result, error) {
		res.StatusCode = 200
		res.Body = []byte("ok")
		return router.Send, nil
	})
	if cfg.StaticRoot != "" {
		_ = r.Use("/static", static.New(cfg.StaticRoot, static.DefaultOptions()))
	}
	return r
}

func runServer(cfgFile string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}

	log := logger.New(context.Background())

	ln, err := server.Listen("tcp", cfg.Listen)
	if err != nil {
		return err
	}

	srv := server.New(context.Background(), log)

	pool := server.NewPool("htserve", cfg.Concurrency, newRouter(cfg), log)
	pool.Stopping = srv.Stopping
	pool.Add(ln, nil)
	srv.Register("pool", pool)

	go func() {
		if err := pool.Serve(context.Background()); err != nil {
			log.CheckError(logger.ErrorLevel, "pool.Serve exited", err)
		}
	}()

	log.Info(fmt.Sprintf("listening on %s", cfg.Listen))
	return srv.Run(context.Background())
}
