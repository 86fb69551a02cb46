package cards

import "strings"

type criticQuote struct {
	keyword string
	quote   string
}

// Checked in order; the first keyword contained in the title wins.
var criticQuotes = []criticQuote{
	{"死霊館", "恐怖の新境地を切り開く傑作ホラー"},
	{"The Lost Princess", "ファンタジーの世界観が圧倒的"},
	{"The Toxic Avenger", "アクションとコメディの絶妙なバランス"},
	{"ウォー・オブ・ザ・ワールド", "SF映画の金字塔"},
	{"鬼滅の刃", "アニメーション映画の新たな可能性"},
	{"悪魔祓い", "日本ホラーの新たなスタンダード"},
	{"プレイ・ダーティー", "スリル満点のエンターテイメント"},
	{"ファンタスティック４", "スーパーヒーロー映画の王道"},
	{"Primitive War", "迫力満点のアクション映画"},
	{"HIM", "心理的サスペンスの傑作"},
	{"第10客室の女", "ミステリーの新境地"},
	{"トロン", "サイバーパンクの名作"},
	{"箱の中の呪い", "ホラーの新たな表現"},
	{"Prisoner of War", "戦争映画の重厚な描写"},
	{"KPOPガールズ", "音楽とアクションの融合"},
	{"Fight Another Day", "アクション映画の王道"},
	{"カマキリ", "日本映画の新たな挑戦"},
	{"スーパーマン", "スーパーヒーローの原点"},
	{"ミッション", "アクション映画の最高峰"},
}

// Critic returns the editorial one-liner for a title, or "" when no keyword
// matches. Matching is a case-sensitive substring test.
func Critic(title string) string {
	for _, c := range criticQuotes {
		if strings.Contains(title, c.keyword) {
			return c.quote
		}
	}
	return ""
}
