package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashes       = regexp.MustCompile(`-+`)
)

// GenerateSlug: "Áo thun Nam 2024" -> "ao-thun-nam-2024"
func GenerateSlug(input string) string {
	s := strings.ToLower(RemoveVietnameseAccents(input))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

var vietnameseReplacer = buildVietnameseReplacer()

func buildVietnameseReplacer() *strings.Replacer {
	groups := map[string]string{
		"a": "àáảãạăằắẳẵặâầấẩẫậ",
		"d": "đ",
		"e": "èéẻẽẹêềếểễệ",
		"i": "ìíỉĩị",
		"o": "òóỏõọôồốổỗộơờớởỡợ",
		"u": "ùúủũụưừứửữự",
		"y": "ỳýỷỹỵ",
	}

	var pairs []string
	for ascii, chars := range groups {
		for _, r := range chars {
			pairs = append(pairs, string(r), ascii)
			pairs = append(pairs, strings.ToUpper(string(r)), strings.ToUpper(ascii))
		}
	}
	return strings.NewReplacer(pairs...)
}

// RemoveVietnameseAccents: "Nguyễn Nhật Ánh" -> "Nguyen Nhat Anh"
func RemoveVietnameseAccents(str string) string {
	return vietnameseReplacer.Replace(str)
}
