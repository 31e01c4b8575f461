package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mardens-Inc/sams-manifest-complier/internal/apperr"
	"github.com/Mardens-Inc/sams-manifest-complier/internal/models"
)

// ResolveCategories turns a selection such as "1,3", "electronics,40",
// "all" or "none" into a set of category codes. "all" expands to every code
// in available; template names are matched case-insensitively.
func ResolveCategories(selection string, templates map[string][]uint8, available []models.Category) ([]uint8, error) {
	var (
		codes []uint8
		seen  = make(map[uint8]bool)
	)
	add := func(c uint8) {
		if !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}

	for _, tok := range strings.Split(selection, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		switch {
		case tok == "" || tok == "none":
		case tok == "all":
			for _, c := range available {
				add(c.ID)
			}
		default:
			if tpl, ok := lookupTemplate(templates, tok); ok {
				for _, c := range tpl {
					add(c)
				}
				continue
			}
			v, err := strconv.ParseUint(tok, 10, 8)
			if err != nil {
				return nil, apperr.Wrap(apperr.KindInvalidInput, fmt.Errorf("unknown category or template %q", tok))
			}
			add(uint8(v))
		}
	}
	return codes, nil
}

func lookupTemplate(templates map[string][]uint8, name string) ([]uint8, bool) {
	for k, v := range templates {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}
