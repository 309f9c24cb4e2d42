package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/dropvault/internal/common"
)

// Fetch downloads the files of a vault. The password is requested only
// when the vault turns out to be protected.
func (a *App) Fetch(ctx context.Context) {

	code, err := GetSimpleText(a.reader, "Vault code", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Input error: %v\n", err)
		return
	}
	code = strings.ToUpper(code)

	res, err := a.vaults.Fetch(ctx, code, "")
	if errors.Is(err, common.ErrorPasswordRequired) {
		pw, pwErr := GetPassword(a.out)
		if pwErr != nil {
			fmt.Fprintf(a.out, "Password input error: %v\n", pwErr)
			return
		}
		res, err = a.vaults.Fetch(ctx, code, string(pw))
		common.WipeByteArray(pw)
	}
	if err != nil {
		fmt.Fprintf(a.out, "Fetch failed: %v\n", err)
		return
	}

	for _, f := range res.Files {
		if f.Err != nil {
			fmt.Fprintf(a.out, "  %s: FAILED (%v)\n", f.FileName, f.Err)
		} else {
			fmt.Fprintf(a.out, "  %s: saved to %s\n", f.FileName, f.Path)
		}
	}
}
