package validation

import "guardaazul/backend/internal/models"

// Keyword tables. They are built once at package init and never mutated, so
// concurrent validation runs share them without locking.

// categoryKeywords maps each category to objects expected in a matching photo.
var categoryKeywords = map[models.Category][]string{
	models.CategoryWaterPollution: {
		"water", "ocean", "sea", "river", "pollution", "oil", "waste",
		"sewage", "chemical", "barrel", "pipe", "industrial", "spill",
	},
	models.CategoryDeforestation: {
		"tree", "forest", "mangrove", "vegetation", "deforestation",
		"cut", "chainsaw", "logging", "cleared land", "stump", "wood",
	},
	models.CategoryCoastalErosion: {
		"beach", "coast", "erosion", "cliff", "sand", "shore",
		"wave", "damage", "collapse", "coastal", "dune",
	},
	models.CategorySoilPollution: {
		"trash", "garbage", "waste", "plastic", "bottle", "bag",
		"dump", "landfill", "litter", "debris", "contamination",
	},
	models.CategoryMarineFauna: {
		"turtle", "fish", "marine", "animal", "dead", "net", "plastic",
		"sea turtle", "dolphin", "whale", "fishing", "bird", "crab",
	},
	models.CategoryMarineFlora: {
		"coral", "algae", "seaweed", "marine plant", "underwater vegetation",
		"reef", "aquatic plant", "kelp", "sea grass", "plankton",
	},
	models.CategoryNoisePollution: {
		"noise", "sound", "loud", "boat", "ship", "motor", "engine",
		"construction", "machinery", "industrial noise",
	},
	models.CategoryIrregularConstruction: {
		"construction", "building", "house", "structure", "concrete",
		"unauthorized", "illegal building", "pier", "dock", "foundation",
	},
	models.CategoryResourceExtraction: {
		"mining", "extraction", "sand", "mineral", "excavation", "quarry",
		"dredging", "drilling", "heavy machinery", "truck", "equipment",
	},
	models.CategoryPredatoryTourism: {
		"tourist", "crowd", "vehicle on beach", "camping", "fires", "tent",
		"atv", "motorcycle", "car on sand", "trampling", "disturbance",
	},
	models.CategoryOther: {
		"environmental damage", "pollution", "waste", "problem", "issue",
		"concern", "violation", "illegal activity", "harm",
	},
}

// coastalCategories earn extra location points inside the coastal box.
var coastalCategories = map[models.Category]bool{
	models.CategoryWaterPollution: true,
	models.CategoryMarineFauna:    true,
	models.CategoryCoastalErosion: true,
}

var coastalAddressWords = []string{"praia", "beach", "costa", "mar", "oceano", "litoral"}

var spamTokens = []string{
	"teste", "test", "fake", "brincadeira", "joke", "meme",
	"asdf", "qwerty", "123", "abc",
}

// nonEnvironmentalLabels and environmentalCounterLabels are matched exactly.
var (
	nonEnvironmentalLabels     = []string{"person", "selfie", "food", "party", "celebration", "indoor"}
	environmentalCounterLabels = []string{"water", "nature", "outdoor", "pollution"}
)

// The aggregator tables below are matched as substrings of each label.
var irrelevantKeywords = []string{
	"person", "people", "human face", "selfie", "portrait",
	"food", "meal", "restaurant", "kitchen", "cooking",
	"party", "celebration", "festival", "concert", "music",
	"indoor", "bedroom", "living room", "office", "classroom",
	"car interior", "vehicle interior", "airplane", "train",
	"meme", "text overlay", "screenshot", "computer screen",
	"animal (pet)", "cat", "dog", "domestic animal",
}

var environmentalKeywords = []string{
	"pollution", "waste", "garbage", "oil", "dead", "damage", "litter", "plastic", "trash",
}

var waterKeywords = []string{"water", "ocean", "sea", "marine", "aquatic", "beach", "coast"}

var outdoorKeywords = []string{"outdoor", "nature", "landscape", "sky", "ground"}

// KnownCategory reports whether the category has an entry in the taxonomy.
func KnownCategory(category models.Category) bool {
	_, ok := categoryKeywords[category]
	return ok
}
