package country

// 文档注释：内置国家矩形表
// 背景：矩形来自各国陆地范围的粗略外包；多个国家的矩形相互覆盖，判定完全依赖声明顺序。
// 约束：排序约定为 微型国家/飞地 → 被邻国矩形覆盖的小国 → 中等国家 → 大国；
// 同一国家可出现多次（如美国本土与阿拉斯加）。调整顺序会改变重叠区域的归属。
var defaultBoxes = []BoundingBox{
	// 微型国家与飞地
	{Name: "Vatican City", MinLat: 41.90, MaxLat: 41.91, MinLng: 12.44, MaxLng: 12.46},
	{Name: "San Marino", MinLat: 43.89, MaxLat: 43.99, MinLng: 12.40, MaxLng: 12.52},
	{Name: "Monaco", MinLat: 43.72, MaxLat: 43.76, MinLng: 7.40, MaxLng: 7.44},
	{Name: "Liechtenstein", MinLat: 47.04, MaxLat: 47.27, MinLng: 9.47, MaxLng: 9.64},
	{Name: "Andorra", MinLat: 42.42, MaxLat: 42.66, MinLng: 1.41, MaxLng: 1.79},
	{Name: "Singapore", MinLat: 1.16, MaxLat: 1.48, MinLng: 103.60, MaxLng: 104.10},
	{Name: "Lesotho", MinLat: -30.70, MaxLat: -28.57, MinLng: 27.00, MaxLng: 29.50},
	{Name: "Eswatini", MinLat: -27.32, MaxLat: -25.72, MinLng: 30.79, MaxLng: 32.14},
	{Name: "Gambia", MinLat: 13.06, MaxLat: 13.83, MinLng: -16.84, MaxLng: -13.79},

	// 小国（矩形通常被邻国覆盖）
	{Name: "Luxembourg", MinLat: 49.44, MaxLat: 50.19, MinLng: 5.73, MaxLng: 6.53},
	{Name: "Brunei", MinLat: 4.00, MaxLat: 5.05, MinLng: 114.00, MaxLng: 115.40},
	{Name: "Qatar", MinLat: 24.47, MaxLat: 26.18, MinLng: 50.75, MaxLng: 51.64},
	{Name: "Lebanon", MinLat: 33.05, MaxLat: 34.69, MinLng: 35.10, MaxLng: 36.62},
	{Name: "Israel", MinLat: 29.50, MaxLat: 33.30, MinLng: 34.27, MaxLng: 35.90},
	{Name: "Belgium", MinLat: 49.50, MaxLat: 51.50, MinLng: 2.54, MaxLng: 6.40},
	{Name: "Netherlands", MinLat: 50.75, MaxLat: 53.55, MinLng: 3.36, MaxLng: 7.23},
	{Name: "Switzerland", MinLat: 45.82, MaxLat: 47.81, MinLng: 5.96, MaxLng: 10.49},
	{Name: "Denmark", MinLat: 54.56, MaxLat: 57.75, MinLng: 8.07, MaxLng: 12.69},
	{Name: "Uruguay", MinLat: -34.97, MaxLat: -30.08, MinLng: -58.44, MaxLng: -53.07},
	{Name: "Paraguay", MinLat: -27.60, MaxLat: -19.29, MinLng: -62.65, MaxLng: -54.26},
	{Name: "South Korea", MinLat: 33.10, MaxLat: 38.60, MinLng: 124.60, MaxLng: 130.90},

	// 中等国家
	{Name: "Austria", MinLat: 46.37, MaxLat: 49.02, MinLng: 9.53, MaxLng: 17.16},
	{Name: "Czechia", MinLat: 48.55, MaxLat: 51.06, MinLng: 12.09, MaxLng: 18.86},
	{Name: "Hungary", MinLat: 45.74, MaxLat: 48.59, MinLng: 16.11, MaxLng: 22.90},
	{Name: "Portugal", MinLat: 36.96, MaxLat: 42.15, MinLng: -9.50, MaxLng: -6.19},
	{Name: "Ireland", MinLat: 51.42, MaxLat: 55.39, MinLng: -10.48, MaxLng: -5.99},
	{Name: "United Kingdom", MinLat: 49.90, MaxLat: 58.70, MinLng: -8.20, MaxLng: 1.77},
	{Name: "Germany", MinLat: 47.27, MaxLat: 55.06, MinLng: 5.87, MaxLng: 15.04},
	{Name: "Poland", MinLat: 49.00, MaxLat: 54.84, MinLng: 14.12, MaxLng: 24.15},
	{Name: "Italy", MinLat: 36.62, MaxLat: 47.09, MinLng: 6.63, MaxLng: 18.52},
	{Name: "Spain", MinLat: 36.00, MaxLat: 43.79, MinLng: -9.30, MaxLng: 3.32},
	{Name: "France", MinLat: 42.33, MaxLat: 51.12, MinLng: -4.79, MaxLng: 8.23},
	{Name: "Greece", MinLat: 34.80, MaxLat: 41.75, MinLng: 19.37, MaxLng: 28.25},
	{Name: "Ukraine", MinLat: 44.39, MaxLat: 52.38, MinLng: 22.14, MaxLng: 40.23},
	{Name: "Turkey", MinLat: 35.82, MaxLat: 42.10, MinLng: 25.66, MaxLng: 44.79},
	{Name: "Ghana", MinLat: 4.74, MaxLat: 11.17, MinLng: -3.26, MaxLng: 1.20},
	{Name: "Morocco", MinLat: 27.67, MaxLat: 35.92, MinLng: -13.17, MaxLng: -0.99},
	{Name: "Nigeria", MinLat: 4.27, MaxLat: 13.89, MinLng: 2.67, MaxLng: 14.68},
	{Name: "Kenya", MinLat: -4.68, MaxLat: 5.03, MinLng: 33.90, MaxLng: 41.90},
	{Name: "Ethiopia", MinLat: 3.40, MaxLat: 14.90, MinLng: 33.00, MaxLng: 48.00},
	{Name: "Egypt", MinLat: 22.00, MaxLat: 31.67, MinLng: 24.70, MaxLng: 36.90},
	{Name: "South Africa", MinLat: -34.83, MaxLat: -22.13, MinLng: 16.46, MaxLng: 32.89},
	{Name: "Japan", MinLat: 24.00, MaxLat: 45.55, MinLng: 122.93, MaxLng: 153.99},
	{Name: "Vietnam", MinLat: 8.56, MaxLat: 23.39, MinLng: 102.14, MaxLng: 109.46},
	{Name: "Thailand", MinLat: 5.61, MaxLat: 20.46, MinLng: 97.34, MaxLng: 105.64},
	{Name: "Pakistan", MinLat: 23.69, MaxLat: 37.08, MinLng: 60.87, MaxLng: 77.84},
	{Name: "New Zealand", MinLat: -47.29, MaxLat: -34.39, MinLng: 166.43, MaxLng: 178.55},
	{Name: "Chile", MinLat: -55.98, MaxLat: -17.50, MinLng: -75.64, MaxLng: -66.42},
	{Name: "Bolivia", MinLat: -22.90, MaxLat: -9.68, MinLng: -69.64, MaxLng: -57.45},
	{Name: "Peru", MinLat: -18.35, MaxLat: -0.04, MinLng: -81.33, MaxLng: -68.65},
	{Name: "Colombia", MinLat: -4.23, MaxLat: 12.46, MinLng: -79.00, MaxLng: -66.87},

	// 大国
	{Name: "Iran", MinLat: 25.06, MaxLat: 39.78, MinLng: 44.03, MaxLng: 63.33},
	{Name: "Saudi Arabia", MinLat: 16.38, MaxLat: 32.16, MinLng: 34.50, MaxLng: 55.67},
	{Name: "India", MinLat: 6.75, MaxLat: 35.50, MinLng: 68.11, MaxLng: 97.40},
	{Name: "Indonesia", MinLat: -11.00, MaxLat: 6.08, MinLng: 95.00, MaxLng: 141.02},
	{Name: "Kazakhstan", MinLat: 40.57, MaxLat: 55.44, MinLng: 46.49, MaxLng: 87.36},
	{Name: "China", MinLat: 18.20, MaxLat: 53.56, MinLng: 73.50, MaxLng: 134.77},
	{Name: "Russia", MinLat: 41.19, MaxLat: 81.86, MinLng: 19.64, MaxLng: 180.00},
	{Name: "Australia", MinLat: -43.64, MaxLat: -10.67, MinLng: 113.34, MaxLng: 153.57},
	{Name: "Mexico", MinLat: 14.53, MaxLat: 32.72, MinLng: -117.13, MaxLng: -86.81},
	{Name: "United States", MinLat: 24.40, MaxLat: 49.38, MinLng: -124.85, MaxLng: -66.90},
	{Name: "United States", MinLat: 51.20, MaxLat: 71.40, MinLng: -179.15, MaxLng: -129.98},
	{Name: "Canada", MinLat: 41.67, MaxLat: 83.11, MinLng: -141.00, MaxLng: -52.62},
	{Name: "Argentina", MinLat: -55.06, MaxLat: -21.78, MinLng: -73.56, MaxLng: -53.64},
	{Name: "Brazil", MinLat: -33.75, MaxLat: 5.27, MinLng: -73.99, MaxLng: -34.79},
}
