package handler

import (
	"adstream/internal/usecase"
)

var (
	userHandler         *UserHandler
	categoryHandler     *CategoryHandler
	storeHandler        *StoreHandler
	planHandler         *PlanHandler
	listingHandler      *ListingHandler
	chatHandler         *ChatHandler
	notificationHandler *NotificationHandler
	checkoutHandler     *CheckoutHandler
)

func Setup(
	userUseCase *usecase.UserUseCase,
	categoryUseCase *usecase.CategoryUseCase,
	storeUseCase *usecase.StoreUseCase,
	planUseCase *usecase.PlanUseCase,
	listingUseCase *usecase.ListingUseCase,
	chatUseCase *usecase.ChatUseCase,
	notificationUseCase *usecase.NotificationUseCase,
	checkoutUseCase *usecase.CheckoutUseCase,
) {
	userHandler = NewUserHandler(userUseCase)
	categoryHandler = NewCategoryHandler(categoryUseCase)
	storeHandler = NewStoreHandler(storeUseCase)
	planHandler = NewPlanHandler(planUseCase)
	listingHandler = NewListingHandler(listingUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
	checkoutHandler = NewCheckoutHandler(checkoutUseCase)
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetCategoryHandler() *CategoryHandler {
	return categoryHandler
}

func GetStoreHandler() *StoreHandler {
	return storeHandler
}

func GetPlanHandler() *PlanHandler {
	return planHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetCheckoutHandler() *CheckoutHandler {
	return checkoutHandler
}
