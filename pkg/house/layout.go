package house

import "math/rand"

func defaultRooms() []Room {
	return []Room{
		{Name: "Bedroom", Area: Rect{X: 100, Y: 100, Width: 150, Height: 120}},
		{Name: "Kitchen", Area: Rect{X: 400, Y: 100, Width: 180, Height: 150}},
		{Name: "Living Room", Area: Rect{X: 100, Y: 300, Width: 300, Height: 150}},
		{Name: "Bathroom", Area: Rect{X: 280, Y: 100, Width: 100, Height: 120}},
	}
}

// standardLayout is the furniture of a freshly built, unowned house.
func standardLayout(width, height int) []Item {
	return []Item{
		// bedroom
		NewItem(110, 110, "bed", 80, 45),
		NewItem(210, 110, "dresser", 45, 40),
		// kitchen
		NewItem(450, 110, "stove", 60, 45),
		NewItem(520, 110, "refrigerator", 45, 65),
		NewItem(380, 170, "table", 90, 45),
		// living room
		NewItem(110, 350, "couch", 120, 45),
		NewItem(260, 340, "tv", 70, 50),
		NewItem(110, 420, "bookshelf", 45, 70),
		// bathroom
		NewItem(320, 110, "toilet", 35, 35),
		NewItem(320, 160, "sink", 45, 35),
		NewItem(width/2-25, height-70, CategoryDoor, 50, 70),
	}
}

// residentLayout is the base furniture every NPC house receives before its
// personality variation is appended.
func residentLayout(width, height int) []Item {
	return []Item{
		NewItem(110, 110, "bed", 80, 45),
		NewItem(210, 110, "dresser", 45, 40),

		NewItem(410, 120, "stove", 50, 40),
		NewItem(480, 120, "refrigerator", 40, 50),
		NewItem(410, 180, "sink", 60, 30),
		NewItem(520, 180, "table", 50, 50),

		NewItem(120, 320, "couch", 80, 40),
		NewItem(220, 320, "tv", 60, 30),
		NewItem(120, 380, "bookshelf", 40, 80),

		NewItem(650, 120, "toilet", 30, 40),
		NewItem(690, 120, "sink", 40, 30),

		NewItem(width/2-25, height-50, CategoryDoor, 50, 20),
	}
}

// personalityVariations are the optional furniture sets that make NPC
// houses differ: study, creative, social, fitness and nature.
var personalityVariations = [][]Item{
	{NewItem(300, 380, "desk", 60, 40), NewItem(300, 320, "chair", 30, 30)},
	{NewItem(280, 320, "easel", 40, 60), NewItem(250, 400, "art_supplies", 50, 30)},
	{NewItem(450, 320, "dining_table", 80, 60), NewItem(450, 400, "extra_chairs", 80, 30)},
	{NewItem(350, 380, "exercise_bike", 50, 50), NewItem(300, 450, "weights", 60, 30)},
	{NewItem(280, 300, "plant_pot", 30, 30), NewItem(320, 300, "plant_pot", 30, 30)},
}

func pickVariation(rng *rand.Rand) []Item {
	v := personalityVariations[rng.Intn(len(personalityVariations))]
	return append([]Item(nil), v...)
}

// mansionLayout furnishes the shared wealthy-family mansion.
func mansionLayout(width, height int) []Item {
	return []Item{
		// entrance hall
		NewItem(width/2-40, 50, "grand_chandelier", 80, 60),
		NewItem(width/2-100, 50, "marble_pillar", 30, 80),
		NewItem(width/2+70, 50, "marble_pillar", 30, 80),

		// master bedroom
		NewItem(100, 100, "king_bed", 120, 80),
		NewItem(250, 100, "luxury_dresser", 80, 60),
		NewItem(350, 100, "walk_in_closet", 60, 80),
		NewItem(100, 200, "bedside_table", 40, 40),
		NewItem(280, 200, "vanity_table", 60, 40),

		// Kailey's room
		NewItem(500, 100, "princess_bed", 90, 60),
		NewItem(600, 100, "toy_chest", 60, 40),
		NewItem(670, 100, "study_desk", 80, 50),
		NewItem(500, 180, "dollhouse", 50, 50),
		NewItem(570, 180, "bookshelf", 40, 80),

		// Louie's room
		NewItem(100, 300, "race_car_bed", 100, 50),
		NewItem(220, 300, "toy_organizer", 60, 60),
		NewItem(300, 300, "play_table", 80, 60),
		NewItem(100, 370, "building_blocks", 40, 40),
		NewItem(160, 370, "stuffed_animals", 50, 30),

		// kitchen
		NewItem(450, 300, "premium_stove", 80, 60),
		NewItem(550, 300, "double_refrigerator", 80, 80),
		NewItem(650, 300, "granite_counter", 100, 50),
		NewItem(450, 380, "dishwasher", 60, 50),
		NewItem(530, 380, "wine_fridge", 50, 60),
		NewItem(600, 380, "coffee_machine", 40, 40),

		// dining room
		NewItem(100, 480, "dining_table", 150, 80),
		NewItem(80, 520, "dining_chair", 40, 40),
		NewItem(140, 520, "dining_chair", 40, 40),
		NewItem(200, 520, "dining_chair", 40, 40),
		NewItem(80, 440, "dining_chair", 40, 40),
		NewItem(140, 440, "dining_chair", 40, 40),
		NewItem(200, 440, "dining_chair", 40, 40),
		NewItem(270, 480, "china_cabinet", 60, 80),

		// living room
		NewItem(400, 480, "sectional_sofa", 120, 80),
		NewItem(540, 480, "leather_armchair", 60, 60),
		NewItem(610, 480, "leather_armchair", 60, 60),
		NewItem(450, 560, "glass_coffee_table", 80, 50),
		NewItem(350, 480, "floor_lamp", 30, 30),
		NewItem(680, 480, "floor_lamp", 30, 30),

		// entertainment
		NewItem(750, 300, "home_theater", 100, 80),
		NewItem(750, 400, "surround_sound", 80, 40),
		NewItem(750, 450, "gaming_console", 50, 30),
		NewItem(810, 450, "movie_collection", 60, 40),

		// study
		NewItem(750, 100, "executive_desk", 100, 60),
		NewItem(750, 180, "executive_chair", 50, 50),
		NewItem(870, 100, "filing_cabinet", 40, 60),
		NewItem(870, 180, "bookcase", 50, 80),
		NewItem(920, 100, "safe", 40, 50),

		// bathrooms
		NewItem(650, 150, "jacuzzi_tub", 80, 60),
		NewItem(750, 150, "double_vanity", 100, 40),
		NewItem(650, 220, "marble_shower", 60, 60),
		NewItem(720, 220, "luxury_toilet", 40, 50),

		NewItem(300, 50, "grand_piano", 120, 80),
		NewItem(550, 50, "art_gallery_wall", 80, 20),
		NewItem(50, 50, "suit_of_armor", 40, 60),
		NewItem(850, 50, "antique_vase", 30, 50),

		NewItem(width/2-25, height-50, CategoryMansionDoor, 80, 30),
	}
}
