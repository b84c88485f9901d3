package main

import (
	"fmt"
	"strings"
)

func versionString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tracelens version %s", version)
	if commit != "" {
		fmt.Fprintf(&sb, " (%s)", commit)
	}
	if date != "" {
		fmt.Fprintf(&sb, " built %s", date)
	}
	return sb.String()
}
