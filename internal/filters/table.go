package filters

func builtinCategories() []Category {
	return []Category{
		{Key: "basic", Label: "Basic Adjustments", Icon: "📊", Filters: []string{"brightness", "contrast", "saturation", "exposure", "shadows_highlights", "sharpness"}},
		{Key: "color", Label: "Color & Tone", Icon: "🎨", Filters: []string{"temperature_tint", "hsl", "split_toning", "curves"}},
		{Key: "artistic", Label: "Artistic Styles", Icon: "🎭", Filters: []string{"vintage", "cinematic", "black_white", "portrait", "mood_based", "instagram_presets"}},
		{Key: "effects", Label: "Visual Effects", Icon: "✨", Filters: []string{"vignette", "grain_noise", "blur", "light_leaks_flares", "glitch_pixelate_sketch"}},
		{Key: "ai", Label: "AI-Powered", Icon: "🤖", Filters: []string{"auto_enhance", "sky_replacement", "background_removal_blur", "face_retouch", "object_removal", "style_transfer"}},
		{Key: "transform", Label: "Transform & Edit", Icon: "📐", Filters: []string{"crop_rotate", "flip_mirror"}},
		{Key: "overlay", Label: "Overlays & Text", Icon: "📝", Filters: []string{"add_text", "stickers_emojis", "brush_draw", "frames_borders"}},
	}
}

func builtinDefinitions() []Definition {
	return []Definition{
		// Basic adjustments.
		{
			Name:     "brightness",
			Template: "Globally adjust the **luminance values** to achieve optimal visual balance. {direction} the overall **brightness** by {amount} to {purpose}.",
			Params: Schema{
				enum("direction", "Increase", "Decrease"),
				slider("amount", 0.1, 2.0, 1.0, 0.1, "multiplier"),
				enum("purpose", "reveal hidden details in shadows", "enhance mood and create dramatic effect", "balance exposure", "correct underexposure"),
			},
		},
		{
			Name:     "contrast",
			Template: "Precisely refine the image's **dynamic range** by manipulating the **contrast**. {direction} contrast by {amount} to {effect}.",
			Params: Schema{
				enum("direction", "Increase", "Decrease"),
				slider("amount", 0.5, 3.0, 1.0, 0.1, "multiplier"),
				enum("effect", "deepen blacks and brighten whites", "create softer ethereal aesthetic", "enhance visual impact", "improve definition"),
			},
		},
		{
			Name:     "saturation",
			Template: "Meticulously control the **vibrancy and intensity of colors** within the image. {direction} **saturation** by {amount} to {effect}.",
			Params: Schema{
				enum("direction", "Increase", "Decrease"),
				slider("amount", 0.0, 2.0, 1.0, 0.1, "multiplier"),
				enum("effect", "make colors pop and appear vivid", "create muted vintage appearance", "achieve monochromatic look", "enhance color vibrancy"),
			},
		},
		{
			Name:     "exposure",
			Template: "Accurately calibrate the image's **overall light capture**. {direction} **exposure** by {amount} to {purpose}.",
			Params: Schema{
				enum("direction", "Increase", "Decrease"),
				slider("amount", -2.0, 2.0, 0.0, 0.1, "stops"),
				enum("purpose", "brighten underexposed areas", "correct overexposed highlights", "balance overall exposure", "enhance tonal richness"),
			},
		},
		{
			Name:     "shadows_highlights",
			Template: "Intelligently recover and enhance detail in the image's **extreme tonal ranges**. {shadow_direction} **shadows** by {shadow_amount} and {highlight_direction} **highlights** by {highlight_amount} to {purpose}.",
			Params: Schema{
				enum("shadow_direction", "Lighten", "Darken"),
				slider("shadow_amount", 0, 100, 0, 1, "%"),
				enum("highlight_direction", "Brighten", "Darken"),
				slider("highlight_amount", 0, 100, 0, 1, "%"),
				enum("purpose", "balance exposure", "recover lost details", "enhance dynamic range", "create dramatic effect"),
			},
		},
		{
			Name:     "sharpness",
			Template: "Precisely define and enhance the **edge fidelity** within the image. {direction} **sharpness** by {amount} to {effect}.",
			Params: Schema{
				enum("direction", "Increase", "Decrease"),
				slider("amount", 0.0, 3.0, 1.0, 0.1, "multiplier"),
				enum("effect", "enhance textural details", "create crisp appearance", "soften harsh edges", "improve clarity"),
			},
		},

		// Color & tone.
		{
			Name:     "temperature_tint",
			Template: "Artfully manipulate the image's **color cast and white balance**. Adjust **temperature** to {temperature_direction} ({temperature_color}) tones and **tint** to {tint_direction} ({tint_color}) hues to {effect}.",
			Params: Schema{
				enum("temperature_direction", "warmer", "cooler"),
				enum("temperature_color", "yellow/orange", "blue"),
				enum("tint_direction", "add green", "add magenta", "neutralize"),
				enum("tint_color", "green", "magenta", "neutral"),
				enum("effect", "golden hour feel", "serene cinematic mood", "neutralize color casts", "artistic color grading"),
			},
		},
		{
			Name: "hsl",
			Template: `Precisely adjust the hue, saturation, and lightness of {target_colors} within the image.

Hue Shift: Apply a hue shift of {hue_shift} degrees to subtly or drastically alter the selected colors. Positive values shift the hue clockwise on the color wheel, while negative values shift it counter-clockwise.
Saturation Change: Modify the vibrancy of the selected colors by {saturation_change}%. Positive values increase color intensity, while negative values reduce it, potentially leading towards grayscale.
Lightness Change: Adjust the brightness of the selected colors by {lightness_change}%. Positive values brighten the colors, while negative values darken them.
These adjustments should {adjustments} to achieve the desired color balance and visual effect.`,
			Params: Schema{
				enum("target_colors", "all colors", "reds", "oranges", "yellows", "greens", "cyans", "blues", "purples", "magentas"),
				slider("hue_shift", -180, 180, 0, 1, "degrees"),
				slider("saturation_change", -100, 100, 0, 1, "%"),
				slider("lightness_change", -100, 100, 0, 1, "%"),
				enum("adjustments", "shift hue slightly", "increase saturation", "decrease saturation", "brighten", "darken", "fine-tune color balance"),
			},
		},
		{
			Name:     "split_toning",
			Template: "Precisely apply a split toning effect to create a harmonious color contrast. Infuse the shadows with a {shadow_color} hue at a saturation level of {shadow_saturation}%, and simultaneously introduce a {highlight_color} hue into the highlights at a saturation level of {highlight_saturation}%. This combination should achieve a {desired_look} aesthetic.",
			Params: Schema{
				enum("shadow_color", "black", "blue", "teal", "purple", "orange", "green", "magenta"),
				slider("shadow_saturation", 0, 100, 25, 1, "%"),
				enum("highlight_color", "orange", "yellow", "pink", "cyan", "warm white", "cool white"),
				slider("highlight_saturation", 0, 100, 25, 1, "%"),
				enum("desired_look", "cinematic", "vintage", "modern", "artistic", "natural"),
			},
		},
		{
			Name:     "curves",
			Template: "Precisely manipulate the **tonal range** of the image by adjusting the **Curves**. Apply a **{curve_type}** curve adjustment by {intensity} to {effect}.",
			Params: Schema{
				enum("curve_type", "S-curve", "lifted shadows", "crushed blacks", "faded film", "custom"),
				slider("intensity", 0.1, 2.0, 1.0, 0.1, "strength"),
				enum("effect", "increase contrast", "brighten dark areas", "create vintage look", "enhance highlights", "fine-tune specific tones"),
			},
		},

		// Artistic styles.
		{
			Name:     "vintage",
			Template: "Evoke the timeless charm of **classic film photography**. Apply a subtle **desaturation** to mute colors, introduce a gentle **fade** to the shadows, and overlay a finely-grained **texture** to simulate film grain. Additionally, consider a slight **vignette** to focus attention and enhance the nostalgic feel.",
		},
		{
			Name:     "cinematic",
			Template: "Craft a **stylized aesthetic** inspired by the silver screen. Start with a **color grading** that emphasizes specific hues (e.g., teal and orange), subtly **desaturate** the overall image, and apply a slight **anamorphic lens flare** effect. Adjust **contrast** for a dramatic look, and add a touch of **grain** for texture.",
		},
		{
			Name:     "black_white",
			Template: "Transform the image into a **monochromatic masterpiece**. Carefully adjust the **contrast** to create a full tonal range, from deep blacks to bright whites. Experiment with different **filter simulations** (e.g., red, green, blue) to alter the tonal interpretation of colors. Aim for a balanced and impactful **grayscale** representation.",
		},
		{
			Name:     "portrait",
			Template: "Enhance the **subject's natural beauty** and create a flattering **portrait**. Gently **soften skin textures** while maintaining sharpness in the eyes and other key features. Warm up **skin tones** for a healthy glow, and subtly **blur the background** to isolate the subject and minimize distractions.",
		},
		{
			Name:     "mood_based",
			Template: "Infuse the image with a **{mood}** emotional atmosphere by {intensity}. {adjustments}",
			Params: Schema{
				enum("mood", "warm", "cool", "dramatic", "romantic", "vintage", "modern", "ethereal", "melancholic"),
				slider("intensity", 0.1, 2.0, 1.0, 0.1, "multiplier"),
				enum("adjustments", "increase temperature and add golden hues", "lower temperature and emphasize blues", "increase contrast and darken shadows", "add soft pink tones and reduce contrast", "enhance earth tones", "create high-key bright look"),
			},
		},
		{
			Name:     "instagram_presets",
			Template: "Emulate the **{preset_name}** filter style found on social media. Apply the characteristic {characteristics} to achieve the {preset_name} aesthetic.",
			Params: Schema{
				enum("preset_name", "Clarendon", "Juno", "Lark", "Ludwig", "Valencia", "X-Pro II", "Willow", "Rise", "Hudson"),
				enum("characteristics", "high contrast and bright colors", "soft warm tones", "desaturated with green tint", "vintage with faded edges", "warm yellow tint", "dramatic vignette and color shift", "black and white with silver tones", "golden warm glow", "cool tones with border"),
			},
		},

		// Visual effects.
		{
			Name:     "vignette",
			Template: "Introduce a {intensity} **{vignette_type} vignette** effect around the edges of the image. Control the **shape, size, and feathering** to {effect}.",
			Params: Schema{
				slider("intensity", 0.0, 1.0, 0.3, 0.05, "strength"),
				enum("vignette_type", "dark", "light"),
				enum("effect", "focus attention on center", "add depth and mood", "create soft ethereal quality", "enhance artistic composition"),
			},
		},
		{
			Name:     "grain_noise",
			Template: "Simulate the **texture and character of film** by adding **{grain_type}** {effect_type}. Apply {intensity} intensity to achieve a {aesthetic} aesthetic.",
			Params: Schema{
				enum("grain_type", "fine", "coarse", "film"),
				enum("effect_type", "grain", "noise"),
				slider("intensity", 0.0, 1.0, 0.2, 0.05, "strength"),
				enum("aesthetic", "vintage", "gritty", "cinematic", "artistic"),
			},
		},
		{
			Name:     "blur",
			Template: "Soften or stylize the image using **{blur_type}** blur effect. Apply {intensity} blur with {direction_info} to {effect}.",
			Params: Schema{
				enum("blur_type", "Gaussian", "motion", "lens", "radial"),
				slider("intensity", 0.1, 2.0, 1.0, 0.1, "strength"),
				enum("direction_info", "no specific direction", "horizontal motion", "vertical motion", "radial from center"),
				enum("effect", "smooth overall softening", "simulate movement", "create shallow depth of field", "artistic stylization"),
			},
		},
		{
			Name:     "light_leaks_flares",
			Template: "Emulate the artistic imperfections of analog photography by adding {effect_type}. Create {color} {effect_description} with an intensity of {intensity} strength, positioned at the {placement} of the image. If 'custom' color is selected, use hex color {custom_color}.",
			Params: Schema{
				enum("effect_type", "light leaks", "lens flares"),
				enum("color", "warm orange", "bright white", "colorful rainbow", "soft pink", "golden yellow", "custom"),
				text("custom_color", "#FF6B35", "Enter hex color (e.g., #FF6B35)"),
				slider("intensity", 0.1, 1.0, 0.5, 0.05, "strength"),
				enum("effect_description", "streaks of light", "circular flares", "washing light effects", "vintage light leaks"),
				enum("placement", "top corner", "bottom corner", "center", "edge", "custom position"),
			},
		},
		{
			Name:     "glitch_pixelate_sketch",
			Template: "Create **stylized {effect_type}** distortions with {intensity} intensity to achieve a {aesthetic} aesthetic.",
			Params: Schema{
				enum("effect_type", "glitch", "pixelate", "sketch"),
				slider("intensity", 0.1, 1.0, 0.5, 0.05, "strength"),
				enum("aesthetic", "modern edgy", "retro digital", "artistic stylized", "abstract"),
			},
		},

		// AI-powered.
		{
			Name:     "auto_enhance",
			Template: "Initiate an **intelligent, AI-driven optimization** of the image. Apply an **auto-enhance** function to globally adjust **brightness, contrast, saturation, and white balance** for optimal visual appeal. Prioritize a natural-looking result that corrects common imperfections without over-processing.",
		},
		{
			Name: "sky_replacement",
			Template: `Leverage advanced AI to detect and seamlessly replace the sky in the image. Integrate a {sky_type} sky.

If '{sky_type}' is set to 'custom', describe the desired sky as: {custom_sky_type}.

Ensure the new sky integrates naturally with the existing scene's lighting, perspective, and color temperature for a realistic and harmonious result.`,
			Params: Schema{
				enum("sky_type", "dramatic sunset", "clear blue", "stormy clouds", "starry night", "golden hour", "overcast", "rainbow", "twilight purple", "custom"),
				text("custom_sky_type", "", "Describe the sky you want (e.g., pink cotton candy clouds)"),
			},
		},
		{
			Name:     "background_removal_blur",
			Template: "Precisely **isolate the primary subject** from its surroundings. {action} to {effect}.",
			Params: Schema{
				enum("action", "Completely remove the background", "Apply strong background blur", "Apply subtle background blur"),
				enum("effect", "create transparent image for compositing", "achieve professional bokeh effect", "isolate subject naturally"),
			},
		},
		{
			Name:     "face_retouch",
			Template: "Subtly enhance facial features for a refined and natural look. Apply **skin smoothing** to reduce imperfections while retaining natural texture, **whiten teeth**, and **brighten/sharpen eyes** to add sparkle. Ensure all adjustments are gentle and maintain the subject's authentic appearance.",
		},
		{
			Name: "object_removal",
			Template: `Intelligently identify and seamlessly remove {objects} from the image.

If '{objects}' is set to 'custom objects', specifically target: {custom_objects}.

Ensure the void is filled with surrounding textures and patterns, resulting in a clean and undetectable repair.`,
			Params: Schema{
				enum("objects", "unwanted people", "power lines", "trash/litter", "vehicles", "signs", "blemishes", "custom objects"),
				text("custom_objects", "", "Describe objects to remove (e.g., red car, street lamp)"),
			},
		},
		{
			Name:     "style_transfer",
			Template: "Apply the **artistic aesthetic** of a **{style_reference}** to the target photograph. If 'Custom style' is selected, follow this style description: {custom_style_reference}. Imbue the photo with the unique {style_characteristics} while preserving the photo's original content.",
			Params: Schema{
				enum("style_reference", "Impressionist painting", "Van Gogh style", "Pencil sketch", "Pop art", "Watercolor", "Oil painting", "Comic book style", "Custom style"),
				text("custom_style_reference", "", "Describe the artistic style you want"),
				enum("style_characteristics", "brushstrokes and color palette", "swirling textures and vibrant colors", "pencil lines and shading", "bold colors and high contrast", "soft washes and bleeding", "thick paint texture", "bold outlines and flat colors"),
			},
		},

		// Transform & edit.
		{
			Name: "crop_rotate",
			Template: `Precisely refine the image's composition and orientation for optimal visual impact.

Cropping: {crop_instruction}.
If selecting 'Custom crop', set the dimensions to {custom_width} pixels wide by {custom_height} pixels high.

Rotation: {rotate_instruction}.
If selecting 'Custom angle', rotate the image by {rotate_angle} degrees (clockwise for positive values, counter-clockwise for negative values).

These adjustments aim to improve framing, correct any tilting, and ensure a balanced, aesthetically pleasing result.`,
			Params: Schema{
				enum("crop_instruction", "Crop to 16:9 aspect ratio", "Crop to square format", "Crop to 4:3 ratio", "Remove unwanted edges", "Focus on main subject", "Custom crop"),
				number("custom_width", 100, 8000, 1920, "pixels"),
				number("custom_height", 100, 8000, 1080, "pixels"),
				slider("rotate_angle", -180, 180, 0, 1, "degrees"),
				enum("rotate_instruction", "Rotate 90° clockwise", "Rotate 90° counter-clockwise", "Straighten horizon", "Correct perspective", "Custom angle"),
			},
		},
		{
			Name:     "flip_mirror",
			Template: "Create a **symmetrical reflection** of the image. **Flip** the image {direction} to {effect}.",
			Params: Schema{
				enum("direction", "horizontally", "vertically", "both"),
				enum("effect", "mirror left and right sides", "invert top and bottom", "create symmetrical composition", "correct perspective"),
			},
		},

		// Overlays & text.
		{
			Name: "add_text",
			Template: `Integrate the text '{text_content}' onto the image.

Font & Style: Use a {font_style} font, set to {font_size}px for optimal readability.
Color: Apply a {color} color. If 'custom color' is selected, use {custom_color}.
Placement: Position the text at {x_position}% horizontally and {y_position}% vertically on the image.
Orientation & Visibility: Rotate the text by {rotation} degrees and set its opacity to {opacity} alpha.
Alignment & Background: Align the text to the {alignment}. {background_option} behind the text for enhanced visibility and style.`,
			Params: Schema{
				text("text_content", "", "Enter your text here"),
				enum("font_style", "modern sans-serif", "classic serif", "handwritten", "bold impact", "elegant script"),
				slider("font_size", 8, 200, 24, 2, "px"),
				enum("color", "white", "black", "red", "blue", "yellow", "custom color"),
				text("custom_color", "#FFFFFF", "Enter hex color (e.g., #FFFFFF)"),
				slider("x_position", 0, 100, 50, 1, "%"),
				slider("y_position", 0, 100, 50, 1, "%"),
				slider("rotation", -45, 45, 0, 1, "degrees"),
				slider("opacity", 0.1, 1.0, 1.0, 0.05, "alpha"),
				enum("alignment", "left", "center", "right"),
				enum("background_option", "No background", "Add semi-transparent background", "Add solid background", "Add outline"),
			},
		},
		{
			Name:     "stickers_emojis",
			Template: "Incorporate {element_type} onto the image. Specify the {element_description} you want to add. Place the element at {x_position}% horizontally and {y_position}% vertically. Set its size to {size}px, rotate it by {rotation} degrees, and adjust its transparency to {opacity} alpha.",
			Params: Schema{
				enum("element_type", "decorative stickers", "emojis", "icons", "badges"),
				text("element_description", "", "Describe stickers/emojis (e.g., heart symbols, star decorations)"),
				slider("x_position", 0, 100, 50, 1, "%"),
				slider("y_position", 0, 100, 50, 1, "%"),
				slider("size", 10, 200, 50, 5, "px"),
				slider("rotation", 0, 360, 0, 15, "degrees"),
				slider("opacity", 0.1, 1.0, 1.0, 0.05, "alpha"),
			},
		},
		{
			Name: "brush_draw",
			Template: `Utilize a {brush_type} digital brush for {purpose} on the image.

Brush Properties: Use a {color} color (if 'custom color' is selected, use {custom_color}), set the brush size to {brush_size}px, and adjust the opacity to {opacity} alpha.

Drawing Action: Perform the following drawing action: {drawing_instructions}.`,
			Params: Schema{
				enum("brush_type", "solid", "textured", "feathered", "calligraphy"),
				enum("purpose", "freehand drawing", "precise annotations", "artistic embellishments", "highlighting areas"),
				enum("color", "red", "blue", "yellow", "white", "black", "custom color"),
				text("custom_color", "#FF0000", "Enter hex color (e.g., #FF0000)"),
				slider("brush_size", 1, 50, 5, 1, "px"),
				slider("opacity", 0.1, 1.0, 1.0, 0.05, "alpha"),
				text("drawing_instructions", "", "Describe what to draw (e.g., circle around face, arrow pointing to...)"),
			},
		},
		{
			Name: "frames_borders",
			Template: `Encase the image with a {frame_style} frame or border to achieve a {effect}.

Frame Appearance:

Thickness: Set the thickness to {thickness}px.
Color: Apply a {color} color (if 'custom color' is selected, use {custom_color}).
Texture: Choose a {texture} texture for the border.
Corner Radius: Apply a corner radius of {corner_radius}px for rounded corners (0 for sharp corners).`,
			Params: Schema{
				enum("frame_style", "simple line", "ornate decorative", "vintage", "modern minimalist", "polaroid style"),
				slider("thickness", 1, 50, 5, 1, "px"),
				enum("color", "white", "black", "gold", "silver", "custom color"),
				text("custom_color", "#FFFFFF", "Enter hex color (e.g., #FFFFFF)"),
				slider("corner_radius", 0, 50, 0, 1, "px"),
				enum("texture", "solid", "textured", "gradient", "patterned"),
				enum("effect", "subtle separation", "elegant presentation", "vintage feel", "modern accent"),
			},
		},
	}
}
