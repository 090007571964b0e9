package reflow

import (
	"regexp"
	"strings"

	"github.com/hqzhou/textreflow/internal/cjk"
)

// Built-in chapter heading patterns: numbered 第N章-style divisions and
// the standalone prologue/epilogue keywords common in CJK novels.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^第[\s\p{Zs}]*[0-9０-９零〇一二三四五六七八九十百千万萬两兩]+[\s\p{Zs}]*[章卷節节部回集話话篇幕]`),
	regexp.MustCompile(`^(序章|序幕|序言|自序|楔子|引子|前言|後記|后记|尾聲|尾声|終章|终章|終幕|终幕|番外|外傳|外传)([\s\p{Zs}　].*)?$`),
	regexp.MustCompile(`^(上|中|下)[卷部冊册]$`),
}

// pageMarkerPattern matches the literal page markers the extractors
// insert between pages: === [Page 3/120] ===
var pageMarkerPattern = regexp.MustCompile(`^===\s*\[Page\s+\d+\s*/\s*\d+\]\s*===$`)

// maxTitleRunes keeps prose sentences that merely start with 第...章
// from being promoted to headings.
const maxTitleRunes = 40

// isTitleHeading reports whether the probe line matches a built-in
// chapter heading pattern.
func isTitleHeading(probe string) bool {
	if probe == "" || len([]rune(probe)) > maxTitleRunes {
		return false
	}
	if r := cjk.LastRune(probe); cjk.IsStrongEnder(r) || cjk.IsCommaLike(r) {
		return false
	}
	for _, p := range titlePatterns {
		if p.MatchString(probe) {
			return true
		}
	}
	return false
}

// metadataKeys is the closed vocabulary of publishing/CIP metadata
// terms accepted on the left of a key:value line.
var metadataKeys = map[string]bool{
	"书名": true, "書名": true, "title": true,
	"作者": true, "author": true, "原著": true, "著者": true,
	"译者": true, "譯者": true, "翻译": true, "翻譯": true,
	"出版": true, "出版社": true, "出版者": true, "publisher": true,
	"出版日期": true, "出版时间": true, "出版時間": true,
	"isbn": true, "书号": true, "書號": true, "统一书号": true,
	"定价": true, "定價": true, "价格": true, "價格": true,
	"版次": true, "印次": true, "字数": true, "字數": true,
	"插画": true, "插畫": true, "繪者": true, "绘者": true,
	"类别": true, "類別": true, "分类": true, "分類": true,
	"来源": true, "來源": true, "制作": true, "製作": true,
	"校对": true, "校對": true, "整理": true, "扫描": true, "掃描": true,
	"责任编辑": true, "責任編輯": true, "简介": true, "簡介": true,
}

// maxMetadataRunes bounds a metadata line; anything longer is prose.
const maxMetadataRunes = 30

// isMetadataLine reports whether probe looks like a short publishing
// metadata line (书名：飄). The value must not itself open dialogue:
// a line like 他说：「走吧」 is prose even when the key would match.
func isMetadataLine(probe string) bool {
	runes := []rune(probe)
	if len(runes) == 0 || len(runes) > maxMetadataRunes {
		return false
	}
	for i, r := range runes {
		if !cjk.MetadataSeparators[r] {
			continue
		}
		key := strings.ToLower(cjk.TrimOuterSpace(string(runes[:i])))
		value := cjk.TrimOuterSpace(string(runes[i+1:]))
		if key == "" || !metadataKeys[key] {
			return false
		}
		if value == "" || cjk.IsDialogueOpener(cjk.FirstRune(value)) {
			return false
		}
		return true
	}
	return false
}

// isPageMarker reports whether probe is a literal page marker line.
func isPageMarker(probe string) bool {
	return pageMarkerPattern.MatchString(probe)
}
