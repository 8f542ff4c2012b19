package store

// Seed carrega os registros de exemplo usados nos exercícios de teste de
// integração. Os ids e timestamps são fixos para que os roteiros dos alunos
// sejam reproduzíveis.
func Seed(s *Store) {
	s.seed("space_exploration", "missions", []Record{
		{
			"id":          "1",
			"name":        "Mars Rover Mission",
			"description": "Explore the surface of Mars",
			"status":      "in-progress",
			"created_at":  "2023-01-15 10:30:00",
		},
		{
			"id":          "2",
			"name":        "Jupiter Orbital",
			"description": "Study Jupiter's atmosphere",
			"status":      "planned",
			"created_at":  "2023-02-20 14:45:00",
		},
	})

	s.seed("space_exploration", "astronauts", []Record{
		{
			"id":          "1",
			"name":        "Dr. Sarah Chen",
			"description": "Astrophysicist and mission specialist",
			"specialty":   "Planetary geology",
			"created_at":  "2023-01-10 09:20:00",
		},
	})

	s.seed("fantasy_rpg", "characters", []Record{
		{
			"id":          "1",
			"name":        "Elindra",
			"description": "Elven ranger from the western forests",
			"class":       "Ranger",
			"level":       5,
			"created_at":  "2023-03-05 11:15:00",
		},
	})

	s.seed("fantasy_rpg", "quests", []Record{
		{
			"id":          "1",
			"name":        "The Lost Artifact",
			"description": "Recover an ancient artifact from the ruins",
			"difficulty":  "Medium",
			"reward":      "500 gold",
			"created_at":  "2023-03-10 16:20:00",
		},
	})

	s.seed("smart_city", "traffic_sensors", []Record{
		{
			"id":          "1",
			"name":        "Downtown Junction A",
			"description": "Main intersection traffic monitor",
			"status":      "active",
			"created_at":  "2023-04-12 08:30:00",
		},
	})

	s.seed("smart_city", "public_transport", []Record{
		{
			"id":          "1",
			"name":        "Metro Line 1",
			"description": "North-South metro connection",
			"status":      "operational",
			"capacity":    1200,
			"created_at":  "2023-04-15 13:45:00",
		},
	})
}
