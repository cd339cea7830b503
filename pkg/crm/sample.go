package crm

func sampleClients() []Client {
	return []Client{
		{ID: "1", Name: "Ivan Sergeevich Ivanov", Email: "ivanov@mail.ru", Phone: "+7 (900) 123-45-67", TotalOrders: 5, Status: ClientActive},
		{ID: "2", Name: "Petr Alekseevich Petrov", Email: "petrov@gmail.com", Phone: "+7 (911) 222-33-44", TotalOrders: 1, Status: ClientLead},
		{ID: "3", Name: "Aleksey Viktorovich Sidorov", Email: "sidor@yandex.ru", Phone: "+7 (922) 555-66-77", TotalOrders: 12, Status: ClientActive},
		{ID: "4", Name: "GamingHouse LLC", Email: "corp@gaminghouse.ru", Phone: "+7 (495) 777-00-11", TotalOrders: 2, Status: ClientActive},
		{ID: "5", Name: "Elena Prekrasnaya", Email: "elena@gmail.com", Phone: "+7 (955) 111-22-33", TotalOrders: 0, Status: ClientLead},
		{ID: "6", Name: "Dmitry Volkov", Email: "volkov_d@bk.ru", Phone: "+7 (999) 000-01-02", TotalOrders: 3, Status: ClientInactive},
		{ID: "7", Name: "Maria Kuznetsova", Email: "masha_k@mail.ru", Phone: "+7 (905) 555-44-33", TotalOrders: 8, Status: ClientActive},
		{ID: "8", Name: "Igor Techblogger", Email: "tech@youtube.com", Phone: "+7 (901) 999-88-77", TotalOrders: 1, Status: ClientLead},
	}
}

func sampleProducts() []Product {
	return []Product{
		{ID: "p1", Name: "NVIDIA RTX 4090 24GB Rog Strix", Category: "Graphics cards", Price: 215000, Stock: 2},
		{ID: "p2", Name: "Intel Core i9-14900K Box", Category: "Processors", Price: 68000, Stock: 5},
		{ID: "p3", Name: "AMD Ryzen 9 7950X3D", Category: "Processors", Price: 72000, Stock: 3},
		{ID: "p4", Name: "ASUS ROG Z790 HERO", Category: "Motherboards", Price: 58000, Stock: 4},
		{ID: "p5", Name: "Kingston Fury DDR5 64GB (2x32) 6000MHz", Category: "Memory", Price: 24500, Stock: 12},
		{ID: "p6", Name: "Samsung 990 Pro 2TB NVMe", Category: "Storage", Price: 19800, Stock: 15},
		{ID: "p7", Name: "be quiet! Dark Power 13 1000W", Category: "Power supplies", Price: 22000, Stock: 6},
		{ID: "p8", Name: "Lian Li O11 Dynamic EVO White", Category: "Cases", Price: 18500, Stock: 8},
		{ID: "p9", Name: "NVIDIA RTX 4080 Super Founders Edition", Category: "Graphics cards", Price: 135000, Stock: 4},
		{ID: "p10", Name: "DeepCool LS720 ARGB 360mm", Category: "Cooling", Price: 11200, Stock: 10},
	}
}

func sampleOrders() []Order {
	return []Order{
		{ID: "ORD-101", ClientID: "1", ClientName: "Ivan Ivanov", Items: []string{"RTX 4090"}, Total: 215000, Status: OrderCompleted, Date: "2025-05-10"},
		{ID: "ORD-102", ClientID: "3", ClientName: "Aleksey Sidorov", Items: []string{"i9-14900K", "Z790 HERO"}, Total: 126000, Status: OrderShipped, Date: "2025-05-12"},
		{ID: "ORD-103", ClientID: "4", ClientName: "GamingHouse", Items: []string{"5x RTX 4080 Super"}, Total: 675000, Status: OrderAssembling, Date: "2025-05-14"},
	}
}
