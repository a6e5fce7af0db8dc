package catalog

import (
	"slices"

	"backend-trailhub/internal/shared/geo"
	"backend-trailhub/internal/store"
)

// FestivalBounds frames Jurong Lake Gardens.
var FestivalBounds = geo.Bounds{
	SouthWest: geo.Point{Lat: 1.3350, Lng: 103.7220},
	NorthEast: geo.Point{Lat: 1.3430, Lng: 103.7310},
}

const (
	lanternImage  = "https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=800&auto=format&fit=crop&q=60"
	pagodaImage   = "https://images.unsplash.com/photo-1480796927426-f609979314bd?w=800&auto=format&fit=crop&q=60"
	lotusImage    = "https://images.pexels.com/photos/1983037/pexels-photo-1983037.jpeg?auto=compress&cs=tinysrgb&w=800"
	skyLanternMP4 = "https://videos.pexels.com/video-files/7655277/7655277-sd_640_360_25fps.mp4"
)

var seed = []store.Pin{
	{
		ID: "p1", Name: "Science Park Trail Challenge - Chinese Garden Entrance",
		Description: "Traditional pagoda with beautiful lantern displays",
		Lat:         1.3387, Lng: 103.7258, Category: store.CategoryTrail,
		Media: []store.Media{
			{Kind: "image", URL: lanternImage, Caption: "Lanterns lining the garden entrance"},
			{Kind: "image", URL: pagodaImage, Caption: "The pagoda dressed for the festival"},
			{Kind: "video", URL: "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_1mb.mp4", Caption: "Red lanterns in the evening breeze", DurationSec: 15},
		},
		FunFact: "Chinese gardens recreate natural landscapes in miniature, each element standing for harmony between people and nature.",
	},
	{
		ID: "p2", Name: "Science Park Trail Challenge - Japanese Garden Bridge",
		Description: "Serene wooden bridge over koi pond",
		Lat:         1.3395, Lng: 103.7265, Category: store.CategoryTrail,
		Media: []store.Media{
			{Kind: "image", URL: pagodaImage, Caption: "The bridge at dusk"},
			{Kind: "video", URL: "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_2mb.mp4", Caption: "Lanterns drifting on the pond", DurationSec: 25},
		},
		FunFact: "Traditional Japanese garden bridges are joined without nails.",
	},
	{
		ID: "p3", Name: "Satay King Stall",
		Description: "Award-winning satay vendor",
		Lat:         1.3380, Lng: 103.7270, Category: store.CategoryVendor,
		VendorName: "Satay King",
	},
	{
		ID: "p4", Name: "Science Park Trail Challenge - Lakeside Pavilion",
		Description: "Perfect spot for lake views and photos",
		Lat:         1.3405, Lng: 103.7240, Category: store.CategoryTrail,
		Media: []store.Media{
			{Kind: "video", URL: "https://videos.pexels.com/video-files/3571264/3571264-sd_640_360_25fps.mp4", Caption: "Thousands of lanterns across the lake", DurationSec: 20},
			{Kind: "image", URL: lanternImage, Caption: "Lanterns over the pavilion"},
		},
		FunFact: "Lantern festivals date back more than 2,000 years to the Han Dynasty.",
	},
	{
		ID: "p5", Name: "Science Park Trail Challenge - Lotus Pond",
		Description: "Beautiful lotus flowers and peaceful atmosphere",
		Lat:         1.3390, Lng: 103.7280, Category: store.CategoryTrail,
		Media: []store.Media{
			{Kind: "video", URL: skyLanternMP4, Caption: "Sky lanterns rising over the pond", DurationSec: 18},
			{Kind: "image", URL: lotusImage, Caption: "Lotus pond with lantern reflections"},
			{Kind: "audio", URL: "https://www.soundjay.com/misc/sounds/water-drop-2.wav", Caption: "Water sounds at the pond", DurationSec: 35},
		},
		FunFact: "Lotus flowers open by day and close at night, a symbol of rebirth and purity.",
	},
	{
		ID: "p6", Name: "Night Market Center",
		Description: "Hub of food vendors and entertainment",
		Lat:         1.3375, Lng: 103.7250, Category: store.CategoryVendor,
		VendorName: "Night Market Hub",
	},
	{
		ID: "p7", Name: "Science Park Trail Challenge - Bamboo Grove",
		Description: "Tranquil bamboo forest path",
		Lat:         1.3398, Lng: 103.7275, Category: store.CategoryTrail,
		Media: []store.Media{
			{Kind: "video", URL: "https://videos.pexels.com/video-files/2064827/2064827-sd_640_360_25fps.mp4", Caption: "Dragon dance in the grove", DurationSec: 22},
			{Kind: "audio", URL: "https://www.soundjay.com/misc/sounds/bamboo-wind-chimes.wav", Caption: "Wind through the bamboo", DurationSec: 40},
		},
		FunFact: "Bamboo bends without breaking and stands for resilience in Chinese culture.",
	},
	{
		ID: "p8", Name: "Science Park Trail Challenge - Scenic Overlook",
		Description: "Panoramic views of the entire gardens",
		Lat:         1.3410, Lng: 103.7285, Category: store.CategoryTrail,
		Media: []store.Media{
			{Kind: "video", URL: skyLanternMP4, Caption: "The festival from above", DurationSec: 30},
			{Kind: "image", URL: lotusImage, Caption: "Panorama of the lantern gardens"},
		},
		FunFact: "Elevated viewing spots were once reserved for nobility during imperial celebrations.",
	},
	{
		ID: "p9", Name: "Rest Area",
		Description: "Toilets and seating area",
		Lat:         1.3385, Lng: 103.7245, Category: store.CategoryFacility,
	},
	{
		ID: "p10", Name: "Laksa Paradise",
		Description: "Authentic laksa and noodle dishes",
		Lat:         1.3395, Lng: 103.7255, Category: store.CategoryVendor,
		VendorName: "Laksa Paradise",
	},
	{
		ID: "p11", Name: "Lights by the Lake - Cloud Pagoda Projection",
		Description: "Projection mapping show every 30 minutes from 7:30 to 9:30 PM",
		Lat:         1.3388, Lng: 103.7260, Category: store.CategoryEvent,
	},
	{
		ID: "p12", Name: "Lights by the Lake - Dragon Phoenix Bridge",
		Description: "The White Rainbow Bridge lit with dragon and phoenix lanterns",
		Lat:         1.3392, Lng: 103.7268, Category: store.CategoryEvent,
	},
	{
		ID: "p13", Name: "Lights by the Lake - Japanese Garden Sunken Garden",
		Description: "Light and mist installation in the sunken garden",
		Lat:         1.3396, Lng: 103.7273, Category: store.CategoryEvent,
	},
	{
		ID: "p14", Name: "North Carpark",
		Description: "Main parking near Forest Ramble and Clusia Cove (173 lots)",
		Lat:         1.3402, Lng: 103.7238, Category: store.CategoryFacility,
	},
	{
		ID: "p15", Name: "South Carpark",
		Description: "Parking near ActiveSG and Grasslands (171 lots)",
		Lat:         1.3387, Lng: 103.7267, Category: store.CategoryFacility,
	},
	{
		ID: "p16", Name: "Clusia Cove Toilet",
		Description: "Restrooms with changing areas at the water play area",
		Lat:         1.3404, Lng: 103.7243, Category: store.CategoryFacility,
	},
	{
		ID: "p17", Name: "Forest Ramble Toilet",
		Description: "Restrooms with nursing room between the play areas",
		Lat:         1.3408, Lng: 103.7245, Category: store.CategoryFacility,
	},
	{
		ID: "p18", Name: "Japanese Garden Toilet",
		Description: "Public restrooms in the Japanese Garden",
		Lat:         1.3395, Lng: 103.7275, Category: store.CategoryFacility,
	},
	{
		ID: "p19", Name: "Entrance Pavilion",
		Description: "Visitor information centre with maps and guides",
		Lat:         1.3405, Lng: 103.7225, Category: store.CategoryFacility,
	},
	{
		ID: "p20", Name: "Water Lily Pavilion",
		Description: "Lakeside visitor services with staff assistance",
		Lat:         1.3385, Lng: 103.7270, Category: store.CategoryFacility,
	},
}

// Pins returns a copy of the festival seed pins in display order.
func Pins() []store.Pin {
	out := make([]store.Pin, len(seed))
	for i, p := range seed {
		p.Media = slices.Clone(p.Media)
		out[i] = p
	}
	return out
}

// TrailCount is the number of trail challenge pins in the seed set.
func TrailCount() int {
	n := 0
	for _, p := range seed {
		if p.IsTrail() {
			n++
		}
	}
	return n
}
