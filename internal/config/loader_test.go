package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	config "github.com/okian/crease/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	Convey("Given no environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then defaults are returned", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.DefaultQuota, ShouldEqual, 16)
		})
	})
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CREASE_ADDR", ":8088")
	t.Setenv("CREASE_DEFAULT_QUOTA", "12")
	t.Setenv("CREASE_ADMIN_TOKEN", "hunter2")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env values win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8088")
			So(cfg.DefaultQuota, ShouldEqual, 12)
			So(cfg.AdminToken, ShouldEqual, "hunter2")
		})
	})
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crease.yaml")
	yaml := "addr: \":7070\"\npayout_amount: 15.50\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CREASE_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then file values win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.PayoutAmount, ShouldEqual, 15.50)
		})
	})
}

func TestLoad_EnvOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crease.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CREASE_CONFIG", path)
	t.Setenv("CREASE_ADDR", ":6060")

	Convey("Given both a file and an env override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env wins over the file", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
		})
	})
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("CREASE_DEFAULT_QUOTA", "0")

	Convey("Given an invalid quota override", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then validation rejects the config", func() {
			So(err, ShouldEqual, config.ErrInvalidQuota)
		})
	})
}
