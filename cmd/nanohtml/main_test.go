package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/nanohtml/internal/config"
	"github.com/vango-dev/nanohtml/internal/errors"
	"github.com/vango-dev/nanohtml/pkg/html"
	"github.com/vango-dev/nanohtml/pkg/publish"
)

// run executes the CLI with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), err
}

// writeConfig saves cfg into a temporary project and returns its path.
func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEncodeStdin(t *testing.T) {
	cfgPath := writeConfig(t, config.New())

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			"pretty",
			`{"div": {"h1": "Hi"}}`,
			nil,
			"<div>\n\t<h1>Hi</h1>\n</div>\n",
		},
		{
			"minify",
			`{"ul": ["a", "b"]}`,
			[]string{"--minify"},
			"<ul><li>a</li><li>b</li></ul>\n",
		},
		{
			"indent escapes",
			`{"div": {"p": "x"}}`,
			[]string{"--indent", `  `},
			"<div>\n  <p>x</p>\n</div>\n",
		},
		{
			"yaml from stdin",
			"ol:\n  - one\n",
			[]string{"--format", "yaml", "-m"},
			"<ol><li>one</li></ol>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"encode", "--config", cfgPath}, tt.args...)
			got, err := run(t, tt.stdin, args...)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeUsesConfig(t *testing.T) {
	cfg := config.New()
	empty := ""
	cfg.Indent, cfg.EOL = &empty, &empty
	cfg.Tags.Default = "div"

	got, err := run(t, `{".note": "x"}`, "encode", "--config", writeConfig(t, cfg))
	if err != nil {
		t.Fatal(err)
	}
	if got != "<div class=\"note\">x</div>\n" {
		t.Errorf("got %q", got)
	}
}

func TestEncodeFileToOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.yaml")
	if err := os.WriteFile(src, []byte("p: Hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "page.html")

	if _, err := run(t, "", "encode", "--config", writeConfig(t, config.New()), src, "-o", out); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<p>Hello</p>\n" {
		t.Errorf("output file = %q", data)
	}
}

func TestEncodeErrors(t *testing.T) {
	cfgPath := writeConfig(t, config.New())
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{\n  \"p\": \"x\",\n  \"q\": \n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	noExt := filepath.Join(dir, "page")
	if err := os.WriteFile(noExt, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		args  []string
		stdin string
		code  string
	}{
		{"missing file", []string{filepath.Join(dir, "nope.json")}, "", "N022"},
		{"syntax error", []string{bad}, "", "N020"},
		{"unknown extension", []string{noExt}, "", "N021"},
		{"bad format flag", []string{"--format", "toml"}, "{}", "N021"},
		{"recursive yaml alias", []string{"--format", "yaml"}, "a: &x [*x]\n", "N020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"encode", "--config", cfgPath}, tt.args...)
			_, err := run(t, tt.stdin, args...)
			if !errors.Is(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}

	_, err := run(t, "", "encode", "--config", cfgPath, bad)
	var ne *errors.NanoError
	if !stderrors.As(err, &ne) || ne.Location == nil || ne.Location.Line != 4 {
		t.Errorf("syntax error should carry line 4, got %+v", ne)
	}
}

func TestDecodeAlwaysFails(t *testing.T) {
	cfgPath := writeConfig(t, config.New())
	for _, markup := range []string{"", "<p>x</p>"} {
		_, err := run(t, markup, "decode", "--config", cfgPath)
		if !stderrors.Is(err, html.ErrNotImplemented) {
			t.Errorf("decode(%q) = %v, want ErrNotImplemented", markup, err)
		}
		if !errors.Is(err, "N001") {
			t.Errorf("decode(%q) should carry N001", markup)
		}
	}
}

func TestPlay(t *testing.T) {
	cfgPath := writeConfig(t, config.New())

	out, err := run(t, "", "play", "--config", cfgPath, "--list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "bootstrap") || strings.Count(out, "\n") != 4 {
		t.Errorf("--list output:\n%s", out)
	}

	out, err = run(t, "", "play", "--config", cfgPath, "lists", "--no-pause")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "Press Enter") || !strings.Contains(out, "<ul><li>First item</li>") {
		t.Errorf("play lists output:\n%s", out)
	}

	out, err = run(t, "\n\n", "play", "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "Press Enter to continue...") != 2 {
		t.Errorf("expected two pauses:\n%s", out)
	}

	if _, err := run(t, "", "play", "--config", cfgPath, "nope"); !errors.Is(err, "N100") {
		t.Errorf("expected N100, got %v", err)
	}
}

func TestPlayAllStopsWaitingAtEOF(t *testing.T) {
	out, err := run(t, "", "play", "--config", writeConfig(t, config.New()), "--all")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "demo complete") != 4 {
		t.Errorf("all demos should run:\n%s", out)
	}
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")

	out, err := run(t, "", "init", dir, "--bucket", "my-site")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "Created") {
		t.Errorf("output = %q", out)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Publish.Bucket != "my-site" {
		t.Errorf("Bucket = %q", cfg.Publish.Bucket)
	}

	if _, err := run(t, "", "init", dir); !errors.Is(err, "N043") {
		t.Errorf("expected N043 for existing file, got %v", err)
	}
	if _, err := run(t, "", "init", dir, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != "dev\n" {
		t.Errorf("version --short = %q", out)
	}

	out, _ = run(t, "", "version")
	if !strings.Contains(out, "Version:    dev") {
		t.Errorf("version output:\n%s", out)
	}
}

// recordingS3 stores uploaded objects in memory.
type recordingS3 struct {
	objects map[string]string
	types   map[string]string
}

func (r *recordingS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	r.objects[aws.ToString(in.Key)] = string(body)
	r.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (r *recordingS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(r.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (r *recordingS3) ListObjectsV2(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return &s3.ListObjectsV2Output{}, nil
}

func withFakeS3(t *testing.T) *recordingS3 {
	t.Helper()
	fake := &recordingS3{objects: map[string]string{}, types: map[string]string{}}
	orig := newPublishClient
	newPublishClient = func(context.Context, config.PublishConfig) (publish.API, error) { return fake, nil }
	t.Cleanup(func() { newPublishClient = orig })
	return fake
}

func TestPublish(t *testing.T) {
	fake := withFakeS3(t)

	cfg := config.New()
	cfg.Publish.Bucket = "site"
	cfg.Publish.Prefix = "v1/"
	cfgPath := writeConfig(t, cfg)

	src := filepath.Join(t.TempDir(), "about.json")
	if err := os.WriteFile(src, []byte(`{"h1": "About"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "publish", "--config", cfgPath, src)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !strings.Contains(out, "s3://site/v1/about.html") {
		t.Errorf("output = %q", out)
	}
	if got := fake.objects["v1/about.html"]; got != "<h1>About</h1>" {
		t.Errorf("uploaded %q", got)
	}
	if got := fake.types["v1/about.html"]; got != publish.ContentType {
		t.Errorf("content type %q", got)
	}

	if _, err := run(t, "", "publish", "--config", cfgPath, "--demo", "lists", "--minify", "--prefix", "", "demos/lists.html"); err != nil {
		t.Fatalf("publish --demo: %v", err)
	}
	if got := fake.objects["demos/lists.html"]; !strings.HasPrefix(got, "<ul><li>First item</li>") {
		t.Errorf("demo upload = %q", got)
	}
}

func TestPublishWithoutBucket(t *testing.T) {
	withFakeS3(t)
	_, err := run(t, "", "publish", "--config", writeConfig(t, config.New()), "--demo", "lists")
	if !errors.Is(err, "N060") {
		t.Errorf("expected N060, got %v", err)
	}
}

func TestPageKey(t *testing.T) {
	tests := map[string]string{
		"pages/about.yaml": "about.html",
		"index.json":       "index.html",
		"-":                "index.html",
		"notes":            "notes.html",
	}
	for in, want := range tests {
		if got := pageKey(in); got != want {
			t.Errorf("pageKey(%q) = %q, want %q", in, got, want)
		}
	}
}
