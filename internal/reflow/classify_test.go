package reflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapseStyleRepeats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"token run", "第一章 第一章 第一章", "第一章"},
		{"token run with trailer", "第一章 第一章 第一章 初遇", "第一章 初遇"},
		{"double only kept", "第一章 第一章", "第一章 第一章"},
		{"phrase repeat", "序章序章序章", "序章"},
		{"single rune repeat kept", "哈哈哈哈", "哈哈哈哈"},
		{"plain line", "今天天氣很好。", "今天天氣很好。"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collapseStyleRepeats(tt.in))
		})
	}
}

func TestIsTitleHeading(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"numbered chapter", "第一章", true},
		{"chapter with title", "第一章 初遇", true},
		{"arabic numerals", "第12章", true},
		{"full-width numerals", "第１２３回", true},
		{"volume", "第三卷", true},
		{"prologue", "序章", true},
		{"wedge", "楔子", true},
		{"afterword traditional", "後記", true},
		{"extra story with title", "番外 一些小事", true},
		{"volume half", "上卷", true},
		{"prose starting with ordinal", "第二天早上，天亮了。", false},
		{"plain prose", "今天天氣很好。", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTitleHeading(tt.in))
		})
	}
}

func TestIsMetadataLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"title colon", "書名：飄", true},
		{"author ascii colon", "作者:瑪格麗特", true},
		{"ideographic space separator", "作者　瑪格麗特", true},
		{"isbn", "ISBN：9787540487645", true},
		{"unknown key", "天氣：很好", false},
		{"value opens dialogue", "作者：「匿名」", false},
		{"no separator", "作者瑪格麗特", false},
		{"too long", "書名：" + stringsRepeat("很長", 20), false},
		{"empty value", "作者：", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isMetadataLine(tt.in))
		})
	}
}

func stringsRepeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func TestIsPageMarker(t *testing.T) {
	assert.True(t, isPageMarker("=== [Page 1/10] ==="))
	assert.True(t, isPageMarker("===[Page 3/3]==="))
	assert.False(t, isPageMarker("=== Page 1 ==="))
	assert.False(t, isPageMarker("第一章"))
}

func TestIsShortHeading_Classes(t *testing.T) {
	set := ShortHeadingSettings{MaxLen: 8, AllCJK: true, AllASCII: true, AllASCIIDigit: true, MixedCJKASCII: false}
	finished := "前情到此結束。"

	assert.True(t, isShortHeading("人物介紹", set, finished, 2))
	assert.True(t, isShortHeading("INTERLUDE", set, finished, 2))
	assert.True(t, isShortHeading("03", set, finished, 2))
	assert.False(t, isShortHeading("Act2 終焉", set, finished, 2), "mixed disabled by default")

	mixed := set
	mixed.MixedCJKASCII = true
	assert.True(t, isShortHeading("Act2 終焉", mixed, finished, 2))

	noCJK := set
	noCJK.AllCJK = false
	assert.False(t, isShortHeading("人物介紹", noCJK, finished, 2))
}

func TestIsShortHeading_Gates(t *testing.T) {
	set := DefaultShortHeading()
	finished := "前情到此結束。"

	assert.False(t, isShortHeading("人物介紹人物介紹人", set, finished, 2), "over length")
	assert.False(t, isShortHeading("人物介紹。", set, finished, 2), "punctuation ending")
	assert.False(t, isShortHeading("張三，李四", set, finished, 2), "comma inside")
	assert.False(t, isShortHeading("人物（介紹", set, finished, 2), "unclosed bracket")
	assert.False(t, isShortHeading("", set, finished, 2))
}

func TestIsShortHeading_BufferDowngrade(t *testing.T) {
	set := DefaultShortHeading()

	// All-CJK candidates need a finished sentence behind them.
	assert.False(t, isShortHeading("人物介紹", set, "", 2))
	assert.False(t, isShortHeading("人物介紹", set, "他拿起了筆", 2))
	assert.False(t, isShortHeading("人物介紹", set, "他拿起了筆，", 2))
	assert.True(t, isShortHeading("人物介紹", set, "他走了。", 2))

	// The hard trailing colon fires even with no buffer behind it,
	// but a comma-like buffer tail still downgrades.
	assert.True(t, isShortHeading("人物介紹：", set, "", 2))
	assert.False(t, isShortHeading("人物介紹：", set, "他拿起了筆，", 2))

	// ASCII candidates are not subject to the all-CJK gate.
	assert.True(t, isShortHeading("INTERLUDE", set, "", 2))
}

func TestClassifyLine_Order(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name string
		in   string
		want lineKind
	}{
		{"empty", "", kindEmpty},
		{"divider", "──────", kindDivider},
		{"page marker", "=== [Page 2/9] ===", kindPageMarker},
		{"title", "第一章", kindTitleHeading},
		{"metadata", "作者：佚名", kindMetadata},
		{"bracket structural", "【第三卷】", kindBracketStructural},
		{"prose", "今天天氣很好。", kindProse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyLine(tt.in, opts, ""))
		})
	}
}
