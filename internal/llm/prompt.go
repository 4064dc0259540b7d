package llm

import "strings"

const promptEN = `Extract the following information from this business card and return it in JSON format:
- name: Full name (in kanji, with surname and given name separated by a half-width space)
- reading: Name reading (in full-width hiragana, with surname and given name separated by a half-width space)
- email: Email address
- company: Company name
- title: Position
- postal_code: Postal code (if not found, return an empty string)
- address: Address (excluding the postal code)
- phone: Phone number
- social_links: Social media links (always an array; if there are none, return an empty array)

If any item is not found, please use an empty string.
Return exactly one JSON object and nothing else.`

const promptJA = `この名刺から以下の情報を抽出してJSONフォーマットで返してください:
- name: 氏名（漢字表記・姓名の間は半角スペースで区切る）
- reading: 氏名の読み仮名（全角ひらがな・姓名の間は半角スペースで区切る）
- email: メールアドレス
- company: 会社名
- title: 役職
- postal_code: 郵便番号（見つからない場合は空文字列）
- address: 住所（郵便番号を除いた部分）
- phone: 電話番号
- social_links: SNSリンク（常に配列。ない場合は空の配列）

見つからない項目は空文字列としてください。
JSONオブジェクトを1つだけ返してください。`

// BuildPrompt returns the fixed instruction text for the given language
// ("en" or "ja"). Anything else falls back to English.
func BuildPrompt(language string) string {
	if strings.EqualFold(strings.TrimSpace(language), "ja") {
		return promptJA
	}
	return promptEN
}
