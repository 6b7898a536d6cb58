package lang

import (
	"bufio"
	"os"
	"os/user"
	"runtime"
	"strings"

	"github.com/ardnew/mung"
)

// target identifies an operating system and instruction set architecture.
type target struct {
	OS   string
	Arch string
}

// String returns the target as an "arch-os" pair.
func (t target) String() string { return t.Arch + "-" + t.OS }

// hostTarget returns the host target using GNU GCC/LLVM naming conventions.
func hostTarget() target {
	t := hostPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// hostPlatform returns the host target using Go conventions.
func hostPlatform() target {
	o, ok := os.LookupEnv("GOHOSTOS")
	if !ok {
		o = runtime.GOOS
	}

	a, ok := os.LookupEnv("GOHOSTARCH")
	if !ok {
		a = runtime.GOARCH
	}

	return target{OS: o, Arch: a}
}

// osNames maps GOOS values to the names scripts see in $$OS.
var osNames = map[string]string{
	"aix":       "AIX",
	"android":   "Android",
	"darwin":    "Darwin",
	"dragonfly": "DragonFly",
	"freebsd":   "FreeBSD",
	"haiku":     "Haiku",
	"illumos":   "Illumos",
	"ios":       "iOS",
	"linux":     "Linux",
	"netbsd":    "NetBSD",
	"openbsd":   "OpenBSD",
	"plan9":     "Plan9",
	"solaris":   "Solaris",
	"windows":   "Windows",
}

// osName returns the display name of goos.
func osName(goos string) string {
	if name, ok := osNames[goos]; ok {
		return name
	}

	if goos == "" {
		return "Unknown"
	}

	return strings.ToUpper(goos[:1]) + goos[1:]
}

// isUnix reports whether goos belongs to the POSIX family.
func isUnix(goos string) bool {
	switch goos {
	case "windows", "plan9", "js", "wasip1", "":
		return false
	}

	return true
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}

	return name
}

func hostUser() string {
	u, err := user.Current()
	if err != nil {
		return os.Getenv("USER")
	}

	return u.Username
}

func hostShell() string {
	if shell, ok := os.LookupEnv("SHELL"); ok {
		return shell
	}

	name := hostUser()
	if name == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}

	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		if e := strings.Split(s.Text(), ":"); len(e) > 6 && e[0] == name {
			return e[6]
		}
	}

	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// environMap converts "KEY=VALUE" entries to a map. If envList is nil,
// os.Environ() is used.
func environMap(envList []string) map[string]string {
	if envList == nil {
		envList = os.Environ()
	}

	m := make(map[string]string, len(envList))

	for _, entry := range envList {
		if key, value, ok := strings.Cut(entry, "="); ok {
			m[key] = value
		}
	}

	return m
}

// prefixPathList prepends items to the PATH-style list subject, removing
// duplicates. If keep is non-nil, only items it accepts are retained.
func prefixPathList(subject string, keep func(string) bool, items ...string) string {
	if keep == nil {
		return mung.Make(
			mung.WithSubjectItems(subject),
			mung.WithDelim(string(os.PathListSeparator)),
			mung.WithPrefixItems(items...),
		).String()
	}

	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
		mung.WithFilter(keep),
	).String()
}
