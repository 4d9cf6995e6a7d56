package geo

import (
	"strings"

	"github.com/iWorld-y/threat_radar/internal/model"
)

// gazetteer 内置地名速查表：小写地名 -> 坐标
// 启动时构建一次，之后只读；命中即零网络解析
var gazetteer = map[string]model.GeoLocation{
	// 亚洲
	"tokyo":       {Latitude: 35.6762, Longitude: 139.6503, PlaceName: "Tokyo", Country: "Japan"},
	"beijing":     {Latitude: 39.9042, Longitude: 116.4074, PlaceName: "Beijing", Country: "China"},
	"shanghai":    {Latitude: 31.2304, Longitude: 121.4737, PlaceName: "Shanghai", Country: "China"},
	"hong kong":   {Latitude: 22.3193, Longitude: 114.1694, PlaceName: "Hong Kong", Country: "China"},
	"taipei":      {Latitude: 25.0330, Longitude: 121.5654, PlaceName: "Taipei", Country: "Taiwan"},
	"seoul":       {Latitude: 37.5665, Longitude: 126.9780, PlaceName: "Seoul", Country: "South Korea"},
	"pyongyang":   {Latitude: 39.0392, Longitude: 125.7625, PlaceName: "Pyongyang", Country: "North Korea"},
	"new delhi":   {Latitude: 28.6139, Longitude: 77.2090, PlaceName: "New Delhi", Country: "India"},
	"mumbai":      {Latitude: 19.0760, Longitude: 72.8777, PlaceName: "Mumbai", Country: "India"},
	"islamabad":   {Latitude: 33.6844, Longitude: 73.0479, PlaceName: "Islamabad", Country: "Pakistan"},
	"karachi":     {Latitude: 24.8607, Longitude: 67.0011, PlaceName: "Karachi", Country: "Pakistan"},
	"kabul":       {Latitude: 34.5553, Longitude: 69.2075, PlaceName: "Kabul", Country: "Afghanistan"},
	"dhaka":       {Latitude: 23.8103, Longitude: 90.4125, PlaceName: "Dhaka", Country: "Bangladesh"},
	"yangon":      {Latitude: 16.8409, Longitude: 96.1735, PlaceName: "Yangon", Country: "Myanmar"},
	"bangkok":     {Latitude: 13.7563, Longitude: 100.5018, PlaceName: "Bangkok", Country: "Thailand"},
	"manila":      {Latitude: 14.5995, Longitude: 120.9842, PlaceName: "Manila", Country: "Philippines"},
	"jakarta":     {Latitude: -6.2088, Longitude: 106.8456, PlaceName: "Jakarta", Country: "Indonesia"},
	"singapore":   {Latitude: 1.3521, Longitude: 103.8198, PlaceName: "Singapore", Country: "Singapore"},
	"hanoi":       {Latitude: 21.0285, Longitude: 105.8542, PlaceName: "Hanoi", Country: "Vietnam"},
	"japan":       {Latitude: 36.2048, Longitude: 138.2529, PlaceName: "Japan", Country: "Japan"},
	"china":       {Latitude: 35.8617, Longitude: 104.1954, PlaceName: "China", Country: "China"},
	"india":       {Latitude: 20.5937, Longitude: 78.9629, PlaceName: "India", Country: "India"},
	"taiwan":      {Latitude: 23.6978, Longitude: 120.9605, PlaceName: "Taiwan", Country: "Taiwan"},
	"north korea": {Latitude: 40.3399, Longitude: 127.5101, PlaceName: "North Korea", Country: "North Korea"},
	"south korea": {Latitude: 35.9078, Longitude: 127.7669, PlaceName: "South Korea", Country: "South Korea"},
	"afghanistan": {Latitude: 33.9391, Longitude: 67.7100, PlaceName: "Afghanistan", Country: "Afghanistan"},
	"pakistan":    {Latitude: 30.3753, Longitude: 69.3451, PlaceName: "Pakistan", Country: "Pakistan"},
	"myanmar":     {Latitude: 21.9162, Longitude: 95.9560, PlaceName: "Myanmar", Country: "Myanmar"},
	"philippines": {Latitude: 12.8797, Longitude: 121.7740, PlaceName: "Philippines", Country: "Philippines"},

	// 中东
	"tehran":       {Latitude: 35.6892, Longitude: 51.3890, PlaceName: "Tehran", Country: "Iran"},
	"baghdad":      {Latitude: 33.3152, Longitude: 44.3661, PlaceName: "Baghdad", Country: "Iraq"},
	"damascus":     {Latitude: 33.5138, Longitude: 36.2765, PlaceName: "Damascus", Country: "Syria"},
	"beirut":       {Latitude: 33.8938, Longitude: 35.5018, PlaceName: "Beirut", Country: "Lebanon"},
	"jerusalem":    {Latitude: 31.7683, Longitude: 35.2137, PlaceName: "Jerusalem", Country: "Israel"},
	"tel aviv":     {Latitude: 32.0853, Longitude: 34.7818, PlaceName: "Tel Aviv", Country: "Israel"},
	"gaza":         {Latitude: 31.5017, Longitude: 34.4668, PlaceName: "Gaza", Country: "Palestine"},
	"riyadh":       {Latitude: 24.7136, Longitude: 46.6753, PlaceName: "Riyadh", Country: "Saudi Arabia"},
	"sanaa":        {Latitude: 15.3694, Longitude: 44.1910, PlaceName: "Sanaa", Country: "Yemen"},
	"ankara":       {Latitude: 39.9334, Longitude: 32.8597, PlaceName: "Ankara", Country: "Turkey"},
	"istanbul":     {Latitude: 41.0082, Longitude: 28.9784, PlaceName: "Istanbul", Country: "Turkey"},
	"dubai":        {Latitude: 25.2048, Longitude: 55.2708, PlaceName: "Dubai", Country: "United Arab Emirates"},
	"iran":         {Latitude: 32.4279, Longitude: 53.6880, PlaceName: "Iran", Country: "Iran"},
	"iraq":         {Latitude: 33.2232, Longitude: 43.6793, PlaceName: "Iraq", Country: "Iraq"},
	"syria":        {Latitude: 34.8021, Longitude: 38.9968, PlaceName: "Syria", Country: "Syria"},
	"israel":       {Latitude: 31.0461, Longitude: 34.8516, PlaceName: "Israel", Country: "Israel"},
	"yemen":        {Latitude: 15.5527, Longitude: 48.5164, PlaceName: "Yemen", Country: "Yemen"},
	"lebanon":      {Latitude: 33.8547, Longitude: 35.8623, PlaceName: "Lebanon", Country: "Lebanon"},
	"turkey":       {Latitude: 38.9637, Longitude: 35.2433, PlaceName: "Turkey", Country: "Turkey"},
	"saudi arabia": {Latitude: 23.8859, Longitude: 45.0792, PlaceName: "Saudi Arabia", Country: "Saudi Arabia"},

	// 欧洲
	"london":    {Latitude: 51.5074, Longitude: -0.1278, PlaceName: "London", Country: "United Kingdom"},
	"paris":     {Latitude: 48.8566, Longitude: 2.3522, PlaceName: "Paris", Country: "France"},
	"berlin":    {Latitude: 52.5200, Longitude: 13.4050, PlaceName: "Berlin", Country: "Germany"},
	"brussels":  {Latitude: 50.8503, Longitude: 4.3517, PlaceName: "Brussels", Country: "Belgium"},
	"madrid":    {Latitude: 40.4168, Longitude: -3.7038, PlaceName: "Madrid", Country: "Spain"},
	"rome":      {Latitude: 41.9028, Longitude: 12.4964, PlaceName: "Rome", Country: "Italy"},
	"warsaw":    {Latitude: 52.2297, Longitude: 21.0122, PlaceName: "Warsaw", Country: "Poland"},
	"moscow":    {Latitude: 55.7558, Longitude: 37.6173, PlaceName: "Moscow", Country: "Russia"},
	"kyiv":      {Latitude: 50.4501, Longitude: 30.5234, PlaceName: "Kyiv", Country: "Ukraine"},
	"kharkiv":   {Latitude: 49.9935, Longitude: 36.2304, PlaceName: "Kharkiv", Country: "Ukraine"},
	"odesa":     {Latitude: 46.4825, Longitude: 30.7233, PlaceName: "Odesa", Country: "Ukraine"},
	"minsk":     {Latitude: 53.9006, Longitude: 27.5590, PlaceName: "Minsk", Country: "Belarus"},
	"belgrade":  {Latitude: 44.7866, Longitude: 20.4489, PlaceName: "Belgrade", Country: "Serbia"},
	"ukraine":   {Latitude: 48.3794, Longitude: 31.1656, PlaceName: "Ukraine", Country: "Ukraine"},
	"russia":    {Latitude: 61.5240, Longitude: 105.3188, PlaceName: "Russia", Country: "Russia"},
	"belarus":   {Latitude: 53.7098, Longitude: 27.9534, PlaceName: "Belarus", Country: "Belarus"},
	"germany":   {Latitude: 51.1657, Longitude: 10.4515, PlaceName: "Germany", Country: "Germany"},
	"france":    {Latitude: 46.2276, Longitude: 2.2137, PlaceName: "France", Country: "France"},
	"poland":    {Latitude: 51.9194, Longitude: 19.1451, PlaceName: "Poland", Country: "Poland"},
	"crimea":    {Latitude: 45.3453, Longitude: 34.4997, PlaceName: "Crimea", Region: "Crimea", Country: "Ukraine"},
	"donbas":    {Latitude: 48.3000, Longitude: 37.9000, PlaceName: "Donbas", Region: "Donbas", Country: "Ukraine"},
	"kosovo":    {Latitude: 42.6026, Longitude: 20.9030, PlaceName: "Kosovo", Country: "Kosovo"},

	// 非洲
	"cairo":        {Latitude: 30.0444, Longitude: 31.2357, PlaceName: "Cairo", Country: "Egypt"},
	"tripoli":      {Latitude: 32.8872, Longitude: 13.1913, PlaceName: "Tripoli", Country: "Libya"},
	"khartoum":     {Latitude: 15.5007, Longitude: 32.5599, PlaceName: "Khartoum", Country: "Sudan"},
	"mogadishu":    {Latitude: 2.0469, Longitude: 45.3182, PlaceName: "Mogadishu", Country: "Somalia"},
	"addis ababa":  {Latitude: 9.0300, Longitude: 38.7400, PlaceName: "Addis Ababa", Country: "Ethiopia"},
	"nairobi":      {Latitude: -1.2921, Longitude: 36.8219, PlaceName: "Nairobi", Country: "Kenya"},
	"lagos":        {Latitude: 6.5244, Longitude: 3.3792, PlaceName: "Lagos", Country: "Nigeria"},
	"abuja":        {Latitude: 9.0765, Longitude: 7.3986, PlaceName: "Abuja", Country: "Nigeria"},
	"bamako":       {Latitude: 12.6392, Longitude: -8.0029, PlaceName: "Bamako", Country: "Mali"},
	"johannesburg": {Latitude: -26.2041, Longitude: 28.0473, PlaceName: "Johannesburg", Country: "South Africa"},
	"sudan":        {Latitude: 12.8628, Longitude: 30.2176, PlaceName: "Sudan", Country: "Sudan"},
	"somalia":      {Latitude: 5.1521, Longitude: 46.1996, PlaceName: "Somalia", Country: "Somalia"},
	"libya":        {Latitude: 26.3351, Longitude: 17.2283, PlaceName: "Libya", Country: "Libya"},
	"ethiopia":     {Latitude: 9.1450, Longitude: 40.4897, PlaceName: "Ethiopia", Country: "Ethiopia"},
	"nigeria":      {Latitude: 9.0820, Longitude: 8.6753, PlaceName: "Nigeria", Country: "Nigeria"},
	"mali":         {Latitude: 17.5707, Longitude: -3.9962, PlaceName: "Mali", Country: "Mali"},
	"egypt":        {Latitude: 26.8206, Longitude: 30.8025, PlaceName: "Egypt", Country: "Egypt"},
	"sahel":        {Latitude: 14.4974, Longitude: 0.1479, PlaceName: "Sahel", Region: "Sahel"},

	// 美洲
	"washington":     {Latitude: 38.9072, Longitude: -77.0369, PlaceName: "Washington", Country: "United States"},
	"new york":       {Latitude: 40.7128, Longitude: -74.0060, PlaceName: "New York", Country: "United States"},
	"mexico city":    {Latitude: 19.4326, Longitude: -99.1332, PlaceName: "Mexico City", Country: "Mexico"},
	"bogota":         {Latitude: 4.7110, Longitude: -74.0721, PlaceName: "Bogota", Country: "Colombia"},
	"caracas":        {Latitude: 10.4806, Longitude: -66.9036, PlaceName: "Caracas", Country: "Venezuela"},
	"port-au-prince": {Latitude: 18.5944, Longitude: -72.3074, PlaceName: "Port-au-Prince", Country: "Haiti"},
	"brasilia":       {Latitude: -15.8267, Longitude: -47.9218, PlaceName: "Brasilia", Country: "Brazil"},
	"buenos aires":   {Latitude: -34.6037, Longitude: -58.3816, PlaceName: "Buenos Aires", Country: "Argentina"},
	"united states":  {Latitude: 37.0902, Longitude: -95.7129, PlaceName: "United States", Country: "United States"},
	"mexico":         {Latitude: 23.6345, Longitude: -102.5528, PlaceName: "Mexico", Country: "Mexico"},
	"venezuela":      {Latitude: 6.4238, Longitude: -66.5897, PlaceName: "Venezuela", Country: "Venezuela"},
	"haiti":          {Latitude: 18.9712, Longitude: -72.2852, PlaceName: "Haiti", Country: "Haiti"},
	"colombia":       {Latitude: 4.5709, Longitude: -74.2973, PlaceName: "Colombia", Country: "Colombia"},
	"brazil":         {Latitude: -14.2350, Longitude: -51.9253, PlaceName: "Brazil", Country: "Brazil"},

	// 海域与航运咽喉（海盗与航运事件高发）
	"red sea":          {Latitude: 20.2802, Longitude: 38.5126, PlaceName: "Red Sea", Region: "Red Sea"},
	"gulf of aden":     {Latitude: 12.0000, Longitude: 47.5000, PlaceName: "Gulf of Aden", Region: "Gulf of Aden"},
	"strait of hormuz": {Latitude: 26.5667, Longitude: 56.2500, PlaceName: "Strait of Hormuz", Region: "Strait of Hormuz"},
	"south china sea":  {Latitude: 13.5000, Longitude: 114.0000, PlaceName: "South China Sea", Region: "South China Sea"},
	"black sea":        {Latitude: 43.4130, Longitude: 34.2992, PlaceName: "Black Sea", Region: "Black Sea"},
	"gulf of guinea":   {Latitude: 2.5000, Longitude: 2.0000, PlaceName: "Gulf of Guinea", Region: "Gulf of Guinea"},
	"suez canal":       {Latitude: 30.4550, Longitude: 32.3500, PlaceName: "Suez Canal", Country: "Egypt"},
	"taiwan strait":    {Latitude: 24.0000, Longitude: 119.0000, PlaceName: "Taiwan Strait", Region: "Taiwan Strait"},

	// 大洋洲
	"canberra":  {Latitude: -35.2809, Longitude: 149.1300, PlaceName: "Canberra", Country: "Australia"},
	"sydney":    {Latitude: -33.8688, Longitude: 151.2093, PlaceName: "Sydney", Country: "Australia"},
	"australia": {Latitude: -25.2744, Longitude: 133.7751, PlaceName: "Australia", Country: "Australia"},
}

// lookupGazetteer 大小写不敏感的速查表命中
func lookupGazetteer(name string) (model.GeoLocation, bool) {
	loc, ok := gazetteer[strings.ToLower(strings.TrimSpace(name))]
	return loc, ok
}
