package seed

type categorySeed struct {
	name        string
	description string
}

var categories = []categorySeed{
	{"Gaming Consoles", "Latest gaming consoles including PlayStation, Xbox, and Nintendo Switch"},
	{"PC Gaming", "High-performance gaming PCs, graphics cards, and PC gaming components"},
	{"Gaming Accessories", "Controllers, charging stations, and essential gaming accessories"},
	{"Gaming Headsets", "Premium gaming headsets with surround sound and noise cancellation"},
	{"Gaming Chairs", "Ergonomic gaming chairs designed for long gaming sessions"},
	{"Video Games", "Popular video games across all platforms and genres"},
	{"Gaming Keyboards & Mice", "Mechanical keyboards, gaming mice, and input devices for competitive gaming"},
	{"Gaming Monitors", "High refresh rate monitors and displays optimized for gaming"},
	{"VR & AR", "Virtual Reality headsets, AR devices, and immersive gaming technology"},
	{"Mobile Gaming", "Mobile gaming accessories, phone controllers, and portable gaming gear"},
}

type userSeed struct {
	name, surname, phone string
}

var users = []userSeed{
	{"John", "Smith", "+1-555-0101"},
	{"Jane", "Johnson", "+1-555-0102"},
	{"Michael", "Williams", "+1-555-0103"},
	{"Sarah", "Brown", "+1-555-0104"},
	{"David", "Jones", "+1-555-0105"},
	{"Emily", "Garcia", "+1-555-0106"},
	{"Robert", "Miller", "+1-555-0107"},
	{"Jessica", "Davis", "+1-555-0108"},
	{"William", "Rodriguez", "+1-555-0109"},
	{"Ashley", "Martinez", "+1-555-0110"},
	{"James", "Hernandez", "+1-555-0111"},
	{"Amanda", "Lopez", "+1-555-0112"},
	{"Christopher", "Gonzalez", "+1-555-0113"},
	{"Stephanie", "Wilson", "+1-555-0114"},
	{"Daniel", "Anderson", "+1-555-0115"},
}

const demoPassword = "password123"

// owner is seeded after the demo users with its own credentials.
var owner = struct {
	name, surname, email, password, phone string
}{"Hamlet", "Ghukasyan", "hamoghukasyan98@gmail.com", "zxcvbnm,./", "1234567890"}

type productSeed struct {
	name        string
	description string
	price       string
	category    int
}

var products = []productSeed{
	{"PlayStation 5 Console", "Next-generation PlayStation 5 console with ultra-high speed SSD and ray tracing support", "499.99", 0},
	{"Xbox Series X", "Microsoft's most powerful gaming console with 4K gaming and Quick Resume technology", "499.99", 0},
	{"Nintendo Switch OLED", "Nintendo Switch with vibrant 7-inch OLED screen and enhanced audio for handheld mode", "349.99", 0},
	{"NVIDIA RTX 4080 Graphics Card", "High-performance graphics card with 16GB GDDR6X memory for 4K gaming excellence", "1199.99", 1},
	{"Razer DeathAdder V3 Gaming Mouse", "Precision gaming mouse with Focus Pro 30K sensor and 90-hour battery life", "79.99", 6},
	{"SteelSeries Arctis 7P Wireless Headset", "Premium wireless gaming headset with lossless 2.4GHz connection and 24-hour battery", "179.99", 3},
	{"Secretlab Titan Evo Gaming Chair", "Ergonomic gaming chair with cold-cure foam and premium materials for ultimate comfort", "449.99", 4},
	{"Cyberpunk 2077 Ultimate Edition", "Open-world action RPG set in the dystopian Night City with all DLC included", "59.99", 5},
	{"Corsair K95 RGB Mechanical Keyboard", "Premium mechanical gaming keyboard with Cherry MX switches and per-key RGB lighting", "199.99", 6},
	{`ASUS ROG Swift 27" 144Hz Monitor`, "27-inch gaming monitor with 144Hz refresh rate and G-Sync compatibility", "399.99", 7},
	{"Meta Quest 3 VR Headset", "Advanced VR headset with mixed reality capabilities and intuitive hand tracking", "499.99", 8},
	{"Razer Kishi V2 Mobile Controller", "Universal mobile gaming controller compatible with iPhone and Android devices", "99.99", 9},
	{"Xbox Wireless Controller", "Official Xbox controller with textured grips and Bluetooth connectivity", "59.99", 2},
	{"HyperX Cloud II Gaming Headset", "Comfortable gaming headset with virtual 7.1 surround sound and noise cancellation", "99.99", 3},
	{"Herman Miller x Logitech G Embody Chair", "Ergonomic gaming chair designed in collaboration with Herman Miller for pro gamers", "1395.00", 4},
	{"The Legend of Zelda: Tears of the Kingdom", "Epic adventure game featuring Link's journey through Hyrule and the Sky Islands", "69.99", 5},
	{"Logitech G Pro X Superlight Mouse", "Ultra-lightweight wireless gaming mouse weighing only 63 grams with HERO 25K sensor", "149.99", 6},
	{`Samsung Odyssey G7 32" Curved Monitor`, "32-inch curved QLED gaming monitor with 240Hz refresh rate and HDR600", "699.99", 7},
	{"PlayStation VR2 Headset", "Next-gen VR headset for PlayStation 5 with haptic feedback and eye tracking", "549.99", 8},
	{"Backbone One Mobile Gaming Controller", "Premium mobile gaming controller with clickable analog triggers and tactile buttons", "99.99", 9},
	{"Nintendo Pro Controller", "Official Nintendo Switch Pro Controller with motion controls and HD rumble", "69.99", 2},
	{"Corsair HS80 RGB Wireless Headset", "Wireless gaming headset with Dolby Atmos and broadcast-grade microphone", "149.99", 3},
	{"RESPAWN 110 Racing Style Gaming Chair", "Racing-style gaming chair with lumbar support and adjustable armrests", "299.99", 4},
	{"Elden Ring Deluxe Edition", "Action RPG masterpiece with challenging combat and vast open world exploration", "79.99", 5},
	{"Razer Huntsman V2 Keyboard", "Premium mechanical keyboard with Razer Linear Optical switches and doubleshot keycaps", "179.99", 6},
	{`LG UltraGear 38" Ultrawide Monitor`, "38-inch ultrawide gaming monitor with Nano IPS technology and 144Hz refresh rate", "1299.99", 7},
	{"HTC Vive Pro 2 VR System", "Professional VR system with 5K resolution and 120Hz refresh rate for immersive gaming", "1399.99", 8},
	{"GameSir X2 Bluetooth Mobile Controller", "Bluetooth mobile gaming controller with hall effect joysticks and programmable buttons", "79.99", 9},
	{"DualSense Wireless Controller", "PlayStation 5's innovative controller with haptic feedback and adaptive triggers", "69.99", 2},
	{"Audio-Technica ATH-G1WL Gaming Headset", "Wireless gaming headset with 90mm drivers and crystal-clear communication", "299.99", 3},
	{"Arozzi Vernazza Gaming Chair", "Premium gaming chair with Italian leather and adjustable lumbar support", "399.99", 4},
	{"God of War Ragnarök", "Norse mythology action-adventure featuring Kratos and Atreus in the Nine Realms", "69.99", 5},
}
