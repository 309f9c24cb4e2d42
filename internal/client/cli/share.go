package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/dropvault/internal/common"
)

// Share walks the user through creating a vault: file paths, lifetime,
// optional password. The password never goes to the server as plaintext
// credentials; it gates access and seals the files locally.
func (a *App) Share(ctx context.Context) {

	pathsLine, err := GetSimpleText(a.reader, "Files to share (space-separated paths)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Input error: %v\n", err)
		return
	}
	paths := strings.Fields(pathsLine)

	durationLine, err := GetSimpleText(a.reader, "Vault lifetime in minutes (5-1440)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Input error: %v\n", err)
		return
	}
	duration, err := strconv.Atoi(durationLine)
	if err != nil {
		fmt.Fprintln(a.out, "Lifetime must be a number of minutes")
		return
	}

	protect, err := GetSimpleText(a.reader, "Protect with a password? (y/N)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Input error: %v\n", err)
		return
	}

	password := ""
	if strings.EqualFold(protect, "y") {
		pw, err := GetPassword(a.out)
		if err != nil {
			fmt.Fprintf(a.out, "Password input error: %v\n", err)
			return
		}
		password = string(pw)
		common.WipeByteArray(pw)
	}

	res, err := a.vaults.Share(ctx, paths, duration, password)
	if err != nil {
		fmt.Fprintf(a.out, "Share failed: %v\n", err)
		if res == nil {
			return
		}
	}

	fmt.Fprintf(a.out, "Vault code: %s (expires %s)\n", res.VaultCode, res.ExpiresAt.Local().Format("15:04:05"))
	for _, f := range res.Files {
		if f.Err != nil {
			fmt.Fprintf(a.out, "  %s: FAILED (%v)\n", f.FileName, f.Err)
		} else {
			fmt.Fprintf(a.out, "  %s: uploaded\n", f.FileName)
		}
	}
}
