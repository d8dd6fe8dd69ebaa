package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-offerletter/internal/config"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// lookBrowser finds a local Chrome/Chromium. Replaced in tests.
var lookBrowser = launcher.LookPath

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"`
	Browser  browserInfo `json:"browser"`
	Env      envInfo     `json:"environment"`
	Output   outputInfo  `json:"output"`
	Assist   assistInfo  `json:"assist"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// browserInfo describes the browser used for PDF export.
type browserInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// outputInfo describes where export artifacts go.
type outputInfo struct {
	Sink     string `json:"sink"`
	Target   string `json:"target"`
	Writable bool   `json:"writable"`
}

// assistInfo reports whether generate can reach the model.
type assistInfo struct {
	KeyEnv string `json:"key_env"`
	KeySet bool   `json:"key_set"`
}

// runDoctorCmd executes the doctor command and returns an exit code:
// 0 when exports can run (warnings included), 1 otherwise.
func runDoctorCmd(args []string, env *Environment) int {
	fs := newFlagSet("doctor", printDoctorUsage, env.Stderr)
	jsonOutput := fs.Bool("json", false, "output JSON")
	configPath := fs.StringP("config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		if usageError(err) == nil {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor(*configPath, env)
	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks against the configuration a
// command would use.
func runDoctor(configPath string, env *Environment) *doctorResult {
	result := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
		},
	}

	cfg, _, err := loadConfig(&commonFlags{config: configPath}, env)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		cfg = config.DefaultConfig()
		env.Config = cfg
	}

	checkBrowser(result)
	checkEnvironment(result, env.Getenv)
	checkOutput(result, cfg)
	checkAssist(result, env)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

// checkBrowser looks for Chrome/Chromium. Only PDF export needs it, so a
// missing browser is a warning.
func checkBrowser(result *doctorResult) {
	path := result.Env.BrowserBin
	if path == "" {
		var found bool
		if path, found = lookBrowser(); !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found: PDF export unavailable (install Chrome or set ROD_BROWSER_BIN)")
			return
		}
	}
	if _, err := os.Stat(path); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Browser not found at %s: PDF export unavailable", path))
		return
	}

	result.Browser.Found = true
	result.Browser.Path = path
	result.Browser.Sandbox = result.Env.NoSandbox != "1"

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- browser path from env or launcher
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get browser version: %v", err))
		return
	}
	result.Browser.Version = strings.TrimSpace(string(out))
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("OFFERLETTER_CONTAINER") == "1" {
		return true, "OFFERLETTER_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkOutput verifies the configured sink. The directory sink must be
// writable; the MinIO sink is only checked for completeness since probing
// it would need the network.
func checkOutput(result *doctorResult, cfg *config.Config) {
	switch cfg.Storage.Kind {
	case sinkMinIO:
		m := cfg.Storage.MinIO
		result.Output.Sink = sinkMinIO
		result.Output.Target = m.Endpoint + "/" + m.Bucket
		if m.AccessKey == "" || m.SecretKey == "" {
			result.Warnings = append(result.Warnings,
				"MinIO credentials empty. Set OFFERLETTER_MINIO_ACCESS_KEY and OFFERLETTER_MINIO_SECRET_KEY")
		}
	default:
		dir := cfg.Storage.Dir
		if dir == "" {
			dir = "."
		}
		result.Output.Sink = sinkDir
		result.Output.Target = dir
		if err := probeWritable(dir); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Output directory not writable: %v", err))
			return
		}
		result.Output.Writable = true
	}
}

// probeWritable creates and removes a file in dir. A missing dir is
// accepted when its parent is writable, since exports create it.
func probeWritable(dir string) error {
	target := dir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		target = filepath.Dir(filepath.Clean(dir))
	}
	f, err := os.CreateTemp(target, ".offerletter-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// checkAssist reports the assist key. A missing key only disables generate.
func checkAssist(result *doctorResult, env *Environment) {
	keyEnv := env.Config.Assist.APIKeyEnv
	result.Assist.KeyEnv = keyEnv
	result.Assist.KeySet = keyEnv != "" && env.Getenv(keyEnv) != ""
	if !result.Assist.KeySet {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s not set; generate is unavailable", keyEnv))
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "offerletter doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser (PDF export)")
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Browser.Path)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Browser.Version)
		}
		if r.Browser.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Output")
	switch {
	case r.Output.Sink == sinkMinIO:
		fmt.Fprintf(w, "  [OK] MinIO: %s\n", r.Output.Target)
	case r.Output.Writable:
		fmt.Fprintf(w, "  [OK] Directory: %s (writable)\n", r.Output.Target)
	default:
		fmt.Fprintf(w, "  [ERROR] Directory: %s (not writable)\n", r.Output.Target)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Assist")
	if r.Assist.KeySet {
		fmt.Fprintf(w, "  [OK] %s: set\n", r.Assist.KeyEnv)
	} else {
		fmt.Fprintf(w, "  [WARN] %s: not set\n", r.Assist.KeyEnv)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to export")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
