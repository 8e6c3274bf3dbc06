package config

import (
	"testing"

	"github.com/jpalmerr/olevel"
)

func TestBuildSlotConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
storage:
  driver: s3
  key: form_one
  s3:
    bucket: school
    region: af-south-1
    prefix: records
    access_key_id: AKIA
    secret_access_key: shh
    path_style: true
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	sc := BuildSlotConfig(cfg)
	if sc.Driver != olevel.DriverS3 {
		t.Errorf("Driver = %q, want s3", sc.Driver)
	}
	if sc.Key != "form_one" {
		t.Errorf("Key = %q, want form_one", sc.Key)
	}
	want := olevel.S3Config{
		Bucket:          "school",
		Region:          "af-south-1",
		Prefix:          "records",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "shh",
		PathStyle:       true,
	}
	if sc.S3 != want {
		t.Errorf("S3 = %+v, want %+v", sc.S3, want)
	}
}

func TestBuildOptions(t *testing.T) {
	cfg, err := Parse([]byte("title: Mwenge Secondary\nport: 9191\nredirect_delay: 0s\nstorage:\n  driver: memory\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	app, err := olevel.New(BuildOptions(cfg)...)
	if err != nil {
		t.Fatalf("olevel.New() error = %v", err)
	}
	if app.Port() != 9191 {
		t.Errorf("Port() = %d, want 9191", app.Port())
	}
	if app.Title() != "Mwenge Secondary" {
		t.Errorf("Title() = %q", app.Title())
	}
	if app.RedirectDelay() != 0 {
		t.Errorf("RedirectDelay() = %v, want 0", app.RedirectDelay())
	}
}

func TestBuildOptions_DefaultTitle(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	app, err := olevel.New(BuildOptions(cfg)...)
	if err != nil {
		t.Fatalf("olevel.New() error = %v", err)
	}
	if app.Title() != "O-Level Student Records" {
		t.Errorf("Title() = %q, want default", app.Title())
	}
}
