package domain

import (
	"fmt"
	"strings"
)

// Appearance はキャラクターの外見上の特徴です。
type Appearance struct {
	Eyes string `json:"eyes"`
	Skin string `json:"skin"`
	Hair string `json:"hair"`
}

// Outfit はキャラクターの服装です。
type Outfit struct {
	Upper    string `json:"upper"`
	Lower    string `json:"lower"`
	Footwear string `json:"footwear"`
}

// Character はロスターに登録される再利用可能なキャラクターの定義を保持します。
// 登録後は不変で、変更したい場合は削除して登録し直すのだ。
type Character struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	Age        string     `json:"age"`
	Appearance Appearance `json:"appearance"`
	Outfit     Outfit     `json:"outfit"`
	Props      string     `json:"props"`
}

// Validate は登録に必要な項目（名前と役割）が埋まっているかを確認します。
func (c Character) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Role) == "" {
		return &ValidationError{
			Field:   "character",
			Message: MsgCharacterFieldsRequired,
		}
	}
	return nil
}

// String はキャラクターの情報を文字列で返すのだ。
func (c Character) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}
