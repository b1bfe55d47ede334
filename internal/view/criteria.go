package view

import (
	"net/url"

	"github.com/Adams521/everything-gift/internal/recommend"
)

type Option struct {
	Value    string
	Label    string
	Selected bool
}

type Select struct {
	Name    string
	Label   string
	Options []Option
}

type choice struct{ value, label string }

var criteriaSelects = []struct {
	name, label string
	choices     []choice
}{
	{recommend.FieldRecipientType, "收礼人类型", []choice{
		{"男/女友", "男/女友"}, {"父母", "父母"}, {"同事", "同事"},
		{"朋友", "朋友"}, {"客户", "客户"}, {"孩子", "孩子"},
	}},
	{recommend.FieldAgeRange, "年龄段", []choice{
		{"18-25", "18-25岁"}, {"26-35", "26-35岁"}, {"36-45", "36-45岁"},
		{"46-60", "46-60岁"}, {"60+", "60岁以上"},
	}},
	{recommend.FieldGender, "性别", []choice{{"男", "男"}, {"女", "女"}}},
	{recommend.FieldRelationship, "关系", []choice{
		{"亲密", "亲密"}, {"熟悉", "熟悉"}, {"一般", "一般"}, {"商务", "商务"},
	}},
	{recommend.FieldOccasion, "场景用途", []choice{
		{"生日", "生日"}, {"纪念日", "纪念日"}, {"节日", "节日"},
		{"毕业", "毕业"}, {"见家长", "见家长"}, {"商务往来", "商务往来"},
	}},
	{recommend.FieldStyle, "风格偏好", []choice{
		{"实用型", "实用型"}, {"创意型", "创意型"}, {"浪漫型", "浪漫型"},
		{"搞笑型", "搞笑型"}, {"有仪式感", "有仪式感"},
	}},
}

// CriteriaSelects builds the select inputs of the criteria form, marking
// whatever form already holds. Every select starts with an empty "请选择"
// option, which leaves the field unset.
func CriteriaSelects(form url.Values) []Select {
	selects := make([]Select, 0, len(criteriaSelects))
	for _, s := range criteriaSelects {
		current := form.Get(s.name)
		opts := make([]Option, 0, len(s.choices)+1)
		opts = append(opts, Option{Value: "", Label: "请选择", Selected: current == ""})
		for _, c := range s.choices {
			opts = append(opts, Option{Value: c.value, Label: c.label, Selected: c.value == current})
		}
		selects = append(selects, Select{Name: s.name, Label: s.label, Options: opts})
	}
	return selects
}
