package genai

import "fmt"

// 语气
const (
	ToneLuxurious    = "Luxurious"
	ToneYouthful     = "Youthful"
	ToneProfessional = "Professional"
)

const chatSystemInstruction = `You are the digital concierge of %s.
Personality: sharp, refined, courteous and professional.
Answer customer questions about the services offered (passports, real estate, money transfer, design and more).
Golden rule: never guess. If you are not sure, ask the customer to reach the team on WhatsApp.
Style: short and useful.`

// VisualStyle 将语气映射为广告图的视觉风格
func VisualStyle(tone string) string {
	switch tone {
	case ToneYouthful:
		return "vibrant neon cyberpunk aesthetic with energetic colors and modern motion blur"
	case ToneProfessional:
		return "clean corporate minimalist aesthetic with soft blues, whites, and sharp focus"
	default:
		return "dark luxury aesthetic with gold accents and high-end lighting"
	}
}

func copyPrompt(serviceName, businessName, platform, tone string) string {
	return fmt.Sprintf(`As a digital marketing expert, write a compelling ad concept.
Business: %s
Service: %s
Target platform: %s
Tone: %s

Requirements:
1. A short, striking headline.
2. Persuasive body text suited to the platform.
3. A call to action inviting the reader to get in touch on WhatsApp.`, businessName, serviceName, platform, tone)
}

func adImagePrompt(serviceName, headline, tone string) string {
	format := "Story"
	if tone == ToneYouthful {
		format = "TikTok"
	}
	return fmt.Sprintf(`A professional high-end digital advertisement for %q.
Headline: %s.
Visual Style: %s.
Mood: %s.
The image should have a placeholder for text or contain high-quality 3D icons related to %q.
Studio photography, 8k resolution, cinematic composition. No low quality, no blur.
Suitable for an Instagram %s.`, serviceName, headline, VisualStyle(tone), tone, serviceName, format)
}

func editPrompt(businessName, instruction string) string {
	return fmt.Sprintf(`As a professional photo editor for %q, edit this image according to this request: %q.
Maintain a polished, professional quality. Return the edited image.`, businessName, instruction)
}

func speechPrompt(text string) string {
	return "Read the following text clearly, in a confident and polished voice: " + text
}

func trendsPrompt(category string) string {
	return fmt.Sprintf("What are the latest trends and most requested services right now for %q? Give me 3 short key points.", category)
}

func quickDescriptionPrompt(serviceName, category string) string {
	return fmt.Sprintf("Write a short, professional and appealing description (under 300 characters) for a service titled %q in the %q category.", serviceName, category)
}

func analyzePrompt(businessName string) string {
	return fmt.Sprintf(`You are the creative lead of %q. Analyze the attached design in an inspiring, professional way.
Cover the visual elements: colors, composition, lighting and the creative message.
Give practical improvement tips, then connect them to the services the business offers.`, businessName)
}
