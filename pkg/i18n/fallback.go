package i18n

// fallbackBundle returns the hardcoded minimal bundle used when every load
// candidate fails. The UI is never left without renderable content.
func fallbackBundle(lang string) Bundle {
	if lang == "ko" {
		return Bundle{
			"meta": map[string]any{
				"title": "포트폴리오",
			},
			"hero": map[string]any{
				"line1": "안녕하세요,",
				"line2": "개발자입니다.",
			},
			"about": map[string]any{
				"title": "소개",
				"paragraphs": []any{
					"콘텐츠를 불러오지 못해 기본 내용을 표시하고 있습니다.",
				},
			},
			"ui": map[string]any{
				"nav": map[string]any{
					"hero":  "홈",
					"about": "소개",
				},
			},
		}
	}
	return Bundle{
		"meta": map[string]any{
			"title": "Portfolio",
		},
		"hero": map[string]any{
			"line1": "Hello, I'm",
			"line2": "a developer.",
		},
		"about": map[string]any{
			"title": "About",
			"paragraphs": []any{
				"Content could not be loaded; showing built-in defaults.",
			},
		},
		"ui": map[string]any{
			"nav": map[string]any{
				"hero":  "Home",
				"about": "About",
			},
		},
	}
}
