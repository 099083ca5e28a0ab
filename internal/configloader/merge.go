package configloader

import "github.com/yaklabco/mdview/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if override is non-nil, so an
//     explicit false still wins
//   - Theme: merged field by field
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base.Clone()

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.LinksOnly != nil {
		linksOnly := *override.LinksOnly
		result.LinksOnly = &linksOnly
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.FallbackLanguage != "" {
		result.FallbackLanguage = override.FallbackLanguage
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	result.Theme = mergeTheme(base.Theme, override.Theme)

	return &result
}

func mergeTheme(base, override config.ThemeConfig) config.ThemeConfig {
	result := base
	pick := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	pick(&result.Syntax, override.Syntax)
	pick(&result.Selection, override.Selection)
	pick(&result.Link, override.Link)
	pick(&result.InlineCode, override.InlineCode)
	pick(&result.CodeBlockBackground, override.CodeBlockBackground)
	pick(&result.BlockQuoteBorder, override.BlockQuoteBorder)
	pick(&result.Rule, override.Rule)
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
