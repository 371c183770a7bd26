package prompt

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
)

// LibraryCategory is one group of ready-made enhancement prompts.
type LibraryCategory struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Prompts []string `json:"prompts"`
}

var builtinLibrary = []LibraryCategory{
	{
		Key:   "quality_enhancement",
		Label: "Quality Enhancement",
		Prompts: []string{
			"Enhance this photo to professional photography standards by improving sharpness, optimizing exposure and contrast, correcting color balance, and reducing any noise while preserving the natural look and original composition.",
			"Transform this image into a high-definition, crisp photograph with perfect lighting balance, enhanced details in both shadows and highlights, and vibrant but natural colors that make it suitable for professional portfolio use.",
			"Improve this photo's visual impact by enhancing clarity and definition, optimizing the dynamic range to reveal details in dark and bright areas, and applying subtle color grading that makes the image more visually appealing while maintaining photographic realism.",
		},
	},
	{
		Key:   "artistic_style",
		Label: "Artistic Style",
		Prompts: []string{
			"Transform this photograph into a cinematic masterpiece with dramatic lighting reminiscent of film noir, enhanced contrast that creates mood and depth, and a color palette that evokes the golden age of Hollywood cinema.",
			"Convert this image into a fine art photograph with the aesthetic of Ansel Adams - rich black and white tones, exceptional detail in textures, dramatic sky contrast, and the kind of composition that would belong in a museum gallery.",
			"Reimagine this photo in the style of Renaissance painting with warm, golden lighting that creates depth and dimension, enhanced colors that have the richness of oil paint, and a composition that feels both classical and timeless.",
		},
	},
	{
		Key:   "mood_atmosphere",
		Label: "Mood & Atmosphere",
		Prompts: []string{
			"Enhance this image to create a warm, nostalgic atmosphere by adding golden hour lighting effects, softening harsh shadows, enriching warm tones while cooling the highlights slightly, and creating a dreamy quality that evokes cherished memories.",
			"Transform this photo into a dramatic, powerful image with stormy sky effects, enhanced contrast that creates visual tension, cooler color temperatures that suggest mystery, and lighting that makes the subject appear heroic and commanding.",
			"Convert this photograph into a serene, peaceful scene by softening all harsh elements, creating gentle, diffused lighting that feels like early morning mist, enhancing greens and blues while muting aggressive colors, and adding a subtle ethereal quality.",
		},
	},
	{
		Key:   "portrait_enhancement",
		Label: "Portrait Enhancement",
		Prompts: []string{
			"Enhance this portrait to professional headshot quality by smoothing skin texture while maintaining natural appearance, brightening and sharpening the eyes, optimizing facial lighting to be flattering, and ensuring the background complements rather than distracts from the subject.",
			"Transform this portrait into a high-end fashion photography style with perfect skin retouching, dramatic lighting that sculpts facial features, enhanced eye definition and lip color, and a polished look suitable for magazine publication.",
			"Improve this portrait by creating natural-looking skin enhancement, brightening the eyes to make them more engaging, optimizing the lighting to eliminate unflattering shadows, and ensuring the overall result looks professional yet authentic.",
		},
	},
	{
		Key:   "landscape_nature",
		Label: "Landscape & Nature",
		Prompts: []string{
			"Enhance this landscape to showcase nature's grandeur by intensifying the sky drama, enriching the colors of vegetation, improving the contrast between different landscape elements, and creating depth that draws viewers into the scene.",
			"Transform this nature photograph into a breathtaking vista by enhancing the golden hour lighting, making the colors more saturated while keeping them natural, improving the clarity of distant elements, and creating a sense of scale that emphasizes the landscape's majesty.",
			"Convert this outdoor scene into a calendar-worthy photograph by optimizing the lighting to create visual interest, enhancing the natural colors without making them artificial, improving the overall composition balance, and ensuring every element contributes to the scenic beauty.",
		},
	},
	{
		Key:   "creative_artistic",
		Label: "Creative & Artistic",
		Prompts: []string{
			"Reimagine this photograph as a watercolor painting with soft, flowing edges, transparent color washes that blend naturally, artistic brush stroke textures, and the kind of delicate beauty that characterizes fine watercolor art.",
			"Transform this image into a vintage poster design with bold, simplified colors, enhanced contrast that creates graphic impact, slightly stylized elements that feel hand-crafted, and the timeless appeal of classic advertising art.",
			"Convert this photo into a digital art masterpiece with enhanced colors that border on surreal, lighting effects that create drama and atmosphere, textures that add artistic interest, and an overall aesthetic that bridges photography and digital art.",
		},
	},
	{
		Key:   "others",
		Label: "Other Styles",
		Prompts: []string{
			"Apply a watercolor filter with soft edges and vibrant, but slightly muted colors to give the scenery a dreamy and impressionistic look",
			"Transform this image into a delicate watercolor painting, with soft edges and a dreamy, diffused appearance. The colors should be vibrant but slightly muted, creating an impressionistic feel",
			"Apply a bold oil painting filter, capturing the texture and depth of thick brushstrokes. The colors should be rich and vibrant, creating a sense of movement and energy in the scene.",
			"Transform this photograph into a timeless sketch, capturing the essence of the subject with simple lines and subtle shading. The lines should be clean and expressive, creating a sense of dynamism and elegance.",
			"Transform this image into a nostalgic vintage Polaroid, with faded edges, a slightly grainy texture, and warm, slightly desaturated colors. Capture the essence of a cherished memory.",
			"Give this image a futuristic cyberpunk vibe, using vibrant neon colors, glowing lines, and a sense of depth and detail. Emphasize the contrast between the dark and luminous elements, creating a captivating, almost otherworldly atmosphere.",
			"Apply a traditional Japanese woodblock print filter, using bold, flat colors, sharp lines, and subtle textures. Emulate the artistic style of a classic woodblock print, with a sense of elegance and simplicity.",
			"line art, black and white, minimalist, elegant lines, high contrast, 4k resolution",
			"watercolor art, vibrant colors, soft edges, painterly style, artistic interpretation, dreamy atmosphere, 4k resolution",
		},
	},
}

// Library holds the preset prompts. Categories keep their insertion order.
type Library struct {
	mu         sync.Mutex
	categories []LibraryCategory
	rng        *rand.Rand
}

// NewLibrary returns a library seeded with the built-in presets. A nil rng
// uses the global source.
func NewLibrary(rng *rand.Rand) *Library {
	l := &Library{rng: rng}
	for _, c := range builtinLibrary {
		c.Prompts = slices.Clone(c.Prompts)
		l.categories = append(l.categories, c)
	}
	return l
}

func (l *Library) Categories() []LibraryCategory {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LibraryCategory, 0, len(l.categories))
	for _, c := range l.categories {
		c.Prompts = slices.Clone(c.Prompts)
		out = append(out, c)
	}
	return out
}

func (l *Library) Prompts(category string) ([]string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(category)
	if i < 0 {
		return nil, false
	}
	return slices.Clone(l.categories[i].Prompts), true
}

// Random picks one prompt from the category.
func (l *Library) Random(category string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(category)
	if i < 0 || len(l.categories[i].Prompts) == 0 {
		return "", false
	}
	prompts := l.categories[i].Prompts
	return prompts[l.intN(len(prompts))], true
}

// RandomAny picks a category and then a prompt from it.
func (l *Library) RandomAny() (category, prompt string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var candidates []int
	for i, c := range l.categories {
		if len(c.Prompts) > 0 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return "", ""
	}
	c := l.categories[candidates[l.intN(len(candidates))]]
	return c.Key, c.Prompts[l.intN(len(c.Prompts))]
}

// Add appends a prompt to an existing category.
func (l *Library) Add(category, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("empty prompt")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(category)
	if i < 0 {
		return fmt.Errorf("unknown prompt category %q", category)
	}
	l.categories[i].Prompts = append(l.categories[i].Prompts, prompt)
	return nil
}

// AddCategory creates a new category. Existing keys are rejected.
func (l *Library) AddCategory(key, label string, prompts []string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("empty category key")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexLocked(key) >= 0 {
		return fmt.Errorf("prompt category %q already exists", key)
	}
	if label == "" {
		label = key
	}
	l.categories = append(l.categories, LibraryCategory{Key: key, Label: label, Prompts: slices.Clone(prompts)})
	return nil
}

func (l *Library) indexLocked(key string) int {
	for i, c := range l.categories {
		if c.Key == key {
			return i
		}
	}
	return -1
}

func (l *Library) intN(n int) int {
	if l.rng != nil {
		return l.rng.IntN(n)
	}
	return rand.IntN(n)
}
