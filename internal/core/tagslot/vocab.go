package tagslot

// DefaultCapacities is the card/editor layout: five slots total
func DefaultCapacities() CapacityTable {
	return CapacityTable{
		CategoryAreaOfFocus:    2,
		CategoryContentPurpose: 1,
		CategoryToneStyle:      1,
		CategoryCustom:         1,
	}
}

// SettingsCapacities is the wider layout used by the tag management screen
func SettingsCapacities() CapacityTable {
	return CapacityTable{
		CategoryAreaOfFocus:    2,
		CategoryContentPurpose: 2,
		CategoryToneStyle:      2,
		CategoryCustom:         1,
	}
}

// DefaultVocabularies returns the preloaded prescriptive tag library
func DefaultVocabularies() Vocabularies {
	return Vocabularies{
		CategoryAreaOfFocus: {
			"Salvation & Grace",
			"Prayer & Worship",
			"Faith & Trust",
			"Love & Relationships",
			"Hope & Comfort",
			"Discipleship & Growth",
			"Scripture Study",
			"Service & Mission",
		},
		CategoryContentPurpose: {
			"Teaching & Education",
			"Personal Reflection",
			"Evangelism & Outreach",
			"Pastoral Care",
			"Youth Ministry",
			"Small Group Study",
			"Sermon Preparation",
			"Devotional Reading",
		},
		CategoryToneStyle: {
			"Expository & Scholarly",
			"Inspirational & Uplifting",
			"Practical & Applicable",
			"Contemplative & Reflective",
			"Conversational & Accessible",
			"Prophetic & Challenging",
			"Narrative & Story-driven",
			"Interactive & Discussion-based",
		},
	}
}
