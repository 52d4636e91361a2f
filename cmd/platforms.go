package cmd

// Platform backends register themselves with internal/platform in init().
import (
	_ "github.com/mj1618/exportbot/internal/platform/darwin"
	_ "github.com/mj1618/exportbot/internal/platform/windows"
	_ "github.com/mj1618/exportbot/internal/platform/x11"
)
